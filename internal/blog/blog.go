// Package blog reads the static blog index (blogs.json) and answers the
// questions the blog pages ask of it.
package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/sakif/studio-site/internal/apperror"
	"github.com/sakif/studio-site/internal/model"
	"github.com/sakif/studio-site/internal/view"
)

// RelatedLimit caps the "related posts" strip under an article.
const RelatedLimit = 3

// Index is the blog, newest post first.
type Index struct {
	posts []model.BlogPost
}

// Load reads the index from a local path or an http(s) URL.
func Load(ctx context.Context, source string, hc *http.Client) (*Index, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return fetch(ctx, source, hc)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open blog index: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func fetch(ctx context.Context, url string, hc *http.Client) (*Index, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build blog index request: %w", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperror.Network("Error fetching blogs", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.HTTPStatus(resp.StatusCode, "Error fetching blogs")
	}
	return Parse(resp.Body)
}

// Parse decodes a blogs.json document.
func Parse(r io.Reader) (*Index, error) {
	var posts []model.BlogPost
	if err := json.NewDecoder(r).Decode(&posts); err != nil {
		return nil, fmt.Errorf("decode blog index: %w", err)
	}
	return New(posts), nil
}

// New builds an index from posts in any order.
func New(posts []model.BlogPost) *Index {
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b model.BlogPost) int {
		return b.Date.Compare(a.Date.Time)
	})
	return &Index{posts: sorted}
}

// Posts returns every post, newest first.
func (ix *Index) Posts() []model.BlogPost {
	return slices.Clone(ix.posts)
}

// Page returns one page of the listing.
func (ix *Index) Page(page, size int) view.Page[model.BlogPost] {
	return view.Paginate(ix.posts, page, size)
}

// FindBySlug returns the post published at /blog/{slug}.
func (ix *Index) FindBySlug(slug string) (model.BlogPost, error) {
	i := slices.IndexFunc(ix.posts, func(p model.BlogPost) bool {
		return p.Slug == slug
	})
	if i < 0 {
		return model.BlogPost{}, apperror.NotFound("blog post", slug)
	}
	return ix.posts[i], nil
}

// Related lists up to RelatedLimit other posts sharing a tag with post.
func (ix *Index) Related(post model.BlogPost) []model.BlogPost {
	return view.Related(ix.posts, post,
		func(p model.BlogPost) int { return p.ID },
		func(p model.BlogPost) []string { return p.Tags },
		RelatedLimit,
	)
}
