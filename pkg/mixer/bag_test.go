package mixer

import "testing"

func TestBag(t *testing.T) {
	t.Run("add deduplicates", func(t *testing.T) {
		b := NewBag[int]()
		b.Add(1)
		b.Add(2)
		b.Add(1)
		if b.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", b.Len())
		}
	})

	t.Run("del absent is a no-op", func(t *testing.T) {
		b := NewBag[int]()
		b.Add(1)
		b.Del(99)
		if b.Len() != 1 {
			t.Fatalf("Len() = %d, want 1", b.Len())
		}
	})

	t.Run("contains and empty", func(t *testing.T) {
		b := NewBag[string]()
		if !b.Empty() {
			t.Fatal("new bag not empty")
		}
		b.Add("x")
		if !b.Contains("x") || b.Contains("y") {
			t.Fatal("Contains misreports membership")
		}
		b.Del("x")
		if !b.Empty() {
			t.Fatal("bag not empty after removing last member")
		}
	})

	t.Run("items is a snapshot", func(t *testing.T) {
		b := NewBag[int]()
		b.Add(1)
		b.Add(2)
		items := b.Items()
		b.Del(1)
		b.Del(2)
		if len(items) != 2 {
			t.Fatalf("snapshot len = %d, want 2", len(items))
		}
	})

	t.Run("clear", func(t *testing.T) {
		b := NewBag[int]()
		b.Add(1)
		b.Add(2)
		b.Clear()
		if !b.Empty() {
			t.Fatal("bag not empty after Clear")
		}
	})
}
