package catalog

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Index maps author and genre ids to the dataset positions of the books
// that carry them. Positions iterate in ascending order, which is dataset order.
type Index struct {
	size     int
	byAuthor map[string]*roaring.Bitmap
	byGenre  map[string]*roaring.Bitmap
}

func buildIndex(books []Book) *Index {
	idx := &Index{
		size:     len(books),
		byAuthor: make(map[string]*roaring.Bitmap),
		byGenre:  make(map[string]*roaring.Bitmap),
	}
	for i, b := range books {
		pos := uint32(i)
		bitmapFor(idx.byAuthor, b.AuthorID).Add(pos)
		for _, g := range b.GenreIDs {
			bitmapFor(idx.byGenre, g).Add(pos)
		}
	}
	for _, rb := range idx.byAuthor {
		rb.RunOptimize()
	}
	for _, rb := range idx.byGenre {
		rb.RunOptimize()
	}
	return idx
}

func bitmapFor(m map[string]*roaring.Bitmap, key string) *roaring.Bitmap {
	rb, ok := m[key]
	if !ok {
		rb = roaring.New()
		m[key] = rb
	}
	return rb
}

// Candidates returns the positions matching the given author and genre.
// An empty id means no constraint on that field. The returned bitmap is a
// fresh copy owned by the caller.
func (idx *Index) Candidates(authorID, genreID string) *roaring.Bitmap {
	var out *roaring.Bitmap
	if authorID != "" {
		out = idx.lookup(idx.byAuthor, authorID)
	}
	if genreID != "" {
		g := idx.lookup(idx.byGenre, genreID)
		if out == nil {
			out = g
		} else {
			out.And(g)
		}
	}
	if out == nil {
		out = roaring.New()
		out.AddRange(0, uint64(idx.size))
	}
	return out
}

func (idx *Index) lookup(m map[string]*roaring.Bitmap, key string) *roaring.Bitmap {
	if rb, ok := m[key]; ok {
		return rb.Clone()
	}
	return roaring.New()
}

// Positions iterates a candidate bitmap in ascending order.
func Positions(rb *roaring.Bitmap) iter.Seq[int] {
	return func(yield func(int) bool) {
		it := rb.Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}

// AuthorCount returns how many books reference the author.
func (idx *Index) AuthorCount(authorID string) int {
	if rb, ok := idx.byAuthor[authorID]; ok {
		return int(rb.GetCardinality())
	}
	return 0
}

// GenreCount returns how many books carry the genre.
func (idx *Index) GenreCount(genreID string) int {
	if rb, ok := idx.byGenre[genreID]; ok {
		return int(rb.GetCardinality())
	}
	return 0
}
