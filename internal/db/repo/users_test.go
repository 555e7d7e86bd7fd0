package repo

import (
	"encoding/json"
	"strings"
	"testing"
)

func book(id, title string, authors ...string) Book {
	return Book{BookID: id, Title: title, Authors: authors}
}

func TestDedupBooksDropsFullFieldDuplicates(t *testing.T) {
	in := []Book{
		book("abc", "Dune", "Frank Herbert"),
		book("abc", "Dune", "Frank Herbert"),
	}

	out := DedupBooks(in)
	if len(out) != 1 {
		t.Fatalf("got %d books, want 1", len(out))
	}
}

func TestDedupBooksKeepsSameIDDifferentFields(t *testing.T) {
	// Deduplication keys on every field, not on bookId alone: two entries
	// sharing an id but differing anywhere else are both kept.
	in := []Book{
		book("abc", "Dune", "Frank Herbert"),
		book("abc", "Dune Messiah", "Frank Herbert"),
	}

	out := DedupBooks(in)
	if len(out) != 2 {
		t.Fatalf("got %d books, want 2", len(out))
	}
}

func TestDedupBooksAuthorOrderMatters(t *testing.T) {
	in := []Book{
		book("abc", "Good Omens", "Terry Pratchett", "Neil Gaiman"),
		book("abc", "Good Omens", "Neil Gaiman", "Terry Pratchett"),
	}

	out := DedupBooks(in)
	if len(out) != 2 {
		t.Fatalf("got %d books, want 2", len(out))
	}
}

func TestDedupBooksEmpty(t *testing.T) {
	out := DedupBooks(nil)
	if out == nil || len(out) != 0 {
		t.Fatalf("got %#v, want empty non-nil slice", out)
	}
}

func TestMarshalBookEmitsEveryKey(t *testing.T) {
	// Stored documents must carry every key so JSONB equality means
	// full-field equality.
	doc, err := marshalBook(Book{BookID: "abc", Title: "Dune"})
	if err != nil {
		t.Fatalf("marshalBook: %v", err)
	}

	for _, key := range []string{"bookId", "title", "authors", "description", "image", "link"} {
		if !strings.Contains(string(doc), `"`+key+`"`) {
			t.Fatalf("document %s missing key %q", doc, key)
		}
	}
	if strings.Contains(string(doc), `"authors":null`) {
		t.Fatalf("authors marshaled as null: %s", doc)
	}
}

func TestMarshalBooksEmptySliceIsArray(t *testing.T) {
	doc, err := marshalBooks(nil)
	if err != nil {
		t.Fatalf("marshalBooks: %v", err)
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(doc, &arr); err != nil {
		t.Fatalf("document %s is not a JSON array: %v", doc, err)
	}
	if len(arr) != 0 {
		t.Fatalf("got %d elements, want 0", len(arr))
	}
}
