package services

import (
	"testing"

	"apartment-scraper/models"
)

func listingNode(title string) *models.Node {
	return models.NewObject().
		Set("title", models.StringNode(title)).
		Set("price", models.NumberNode(500000)).
		Set("url", models.StringNode("/pl/oferta/"+title))
}

func TestScanPreOrder(t *testing.T) {
	inner := models.NewObject().Set("name", models.StringNode("inner"))
	root := models.NewObject().
		Set("first", models.NewObject().Set("name", models.StringNode("first"))).
		Set("list", models.NewArray(inner, models.StringNode("scalar"))).
		Set("last", models.NewObject().Set("name", models.StringNode("last")))

	nodes := Scan(root)

	var names []string
	for _, n := range nodes {
		if v, ok := n.Field("name"); ok {
			names = append(names, v.Text())
		}
	}

	want := []string{"first", "inner", "last"}
	if len(names) != len(want) {
		t.Fatalf("names: got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d]: got %q, want %q", i, names[i], want[i])
		}
	}
	if len(nodes) != 4 { // root + three children
		t.Errorf("object count: got %d, want 4", len(nodes))
	}
}

func TestLooksLikeListingRequiresAllThreeClasses(t *testing.T) {
	tests := []struct {
		name string
		node *models.Node
		want bool
	}{
		{
			"all three classes",
			listingNode("Mieszkanie"),
			true,
		},
		{
			"missing title class",
			models.NewObject().
				Set("price", models.NumberNode(1)).
				Set("url", models.StringNode("/x")),
			false,
		},
		{
			"missing price class",
			models.NewObject().
				Set("title", models.StringNode("x")).
				Set("url", models.StringNode("/x")),
			false,
		},
		{
			"missing url class",
			models.NewObject().
				Set("title", models.StringNode("x")).
				Set("price", models.NumberNode(1)),
			false,
		},
		{
			"empty values do not count",
			models.NewObject().
				Set("title", models.StringNode("  ")).
				Set("price", models.NumberNode(1)).
				Set("url", models.StringNode("/x")),
			false,
		},
		{
			"alternate key names",
			models.NewObject().
				Set("name", models.StringNode("x")).
				Set("totalPrice", models.NewObject().Set("value", models.NumberNode(1))).
				Set("href", models.StringNode("/x")),
			true,
		},
		{
			"scalar node", models.StringNode("x"), false,
		},
	}

	for _, tt := range tests {
		if got := LooksLikeListing(tt.node); got != tt.want {
			t.Errorf("%s: LooksLikeListing = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSelectListingCollectionPicksLongest(t *testing.T) {
	decoy := models.NewArray(listingNode("a"), listingNode("b"))
	real := models.NewArray(listingNode("c"), listingNode("d"), listingNode("e"))
	notListings := models.NewArray(
		models.NewObject().Set("label", models.StringNode("x")),
		models.NewObject().Set("label", models.StringNode("y")),
	)

	root := models.NewObject().
		Set("promoted", decoy).
		Set("meta", notListings).
		Set("deep", models.NewObject().Set("items", real))

	got := SelectListingCollection(root)
	if len(got) != 3 {
		t.Fatalf("collection length: got %d, want 3", len(got))
	}
	if title, _ := got[0].Field("title"); title.Text() != "c" {
		t.Errorf("first element title: got %q, want c", title.Text())
	}
}

func TestSelectListingCollectionTieBreaksOnEncounterOrder(t *testing.T) {
	first := models.NewArray(listingNode("first-a"), listingNode("first-b"))
	second := models.NewArray(listingNode("second-a"), listingNode("second-b"))

	root := models.NewObject().
		Set("one", first).
		Set("two", second)

	got := SelectListingCollection(root)
	if len(got) != 2 {
		t.Fatalf("collection length: got %d, want 2", len(got))
	}
	if title, _ := got[0].Field("title"); title.Text() != "first-a" {
		t.Errorf("tie should keep the first-found array, got first title %q", title.Text())
	}
}

func TestSelectListingCollectionRejectsMixedArrays(t *testing.T) {
	mixed := models.NewArray(listingNode("a"), models.StringNode("not an object"))
	root := models.NewObject().Set("items", mixed)

	if got := SelectListingCollection(root); got != nil {
		t.Errorf("mixed array should not qualify, got %d elements", len(got))
	}
}

func TestFirstListingCandidate(t *testing.T) {
	root := models.NewObject().
		Set("meta", models.NewObject().Set("title", models.StringNode("no price or url"))).
		Set("ad", listingNode("detal"))

	got := FirstListingCandidate(root)
	if got == nil {
		t.Fatal("expected a candidate")
	}
	if title, _ := got.Field("title"); title.Text() != "detal" {
		t.Errorf("candidate title: got %q, want detal", title.Text())
	}

	if FirstListingCandidate(models.NewObject()) != nil {
		t.Error("empty tree should yield no candidate")
	}
}
