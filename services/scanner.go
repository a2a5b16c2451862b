package services

import "apartment-scraper/models"

// Key classes a node must populate before it can be a listing. The state tree
// nests listings under unpredictable paths, so membership is decided by shape,
// not by location.
var (
	titleKeys = []string{"title", "name"}
	priceKeys = []string{"price", "totalPrice", "priceFrom", "value"}
	urlKeys   = []string{"url", "href", "link"}
)

// Scan walks the tree pre-order depth-first and returns every object node in
// encounter order: an object is emitted before its values, object values are
// visited in document order, array elements in index order. The input is
// assumed to be acyclic.
func Scan(root *models.Node) []*models.Node {
	var out []*models.Node
	var walk func(n *models.Node)
	walk = func(n *models.Node) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case models.KindObject:
			out = append(out, n)
			for _, k := range n.Keys() {
				child, _ := n.Field(k)
				walk(child)
			}
		case models.KindArray:
			for _, it := range n.Items() {
				walk(it)
			}
		}
	}
	walk(root)
	return out
}

// LooksLikeListing reports whether the object node carries a non-empty value
// in each of the three key classes: a title, a price and a link. Two out of
// three is not enough.
func LooksLikeListing(n *models.Node) bool {
	if n == nil || n.Kind() != models.KindObject {
		return false
	}
	return hasAny(n, titleKeys) && hasAny(n, priceKeys) && hasAny(n, urlKeys)
}

// FirstListingCandidate returns the first listing-shaped node in traversal
// order, or nil. Detail pages carry exactly one such node.
func FirstListingCandidate(root *models.Node) *models.Node {
	for _, n := range Scan(root) {
		if LooksLikeListing(n) {
			return n
		}
	}
	return nil
}

// SelectListingCollection finds the array that actually holds the listings:
// among all arrays whose elements are all objects and whose first element
// looks like a listing, the longest wins. Ties go to the array found first,
// which keeps the result stable across runs.
func SelectListingCollection(root *models.Node) []*models.Node {
	var best []*models.Node
	var walk func(n *models.Node)
	walk = func(n *models.Node) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case models.KindObject:
			for _, k := range n.Keys() {
				child, _ := n.Field(k)
				walk(child)
			}
		case models.KindArray:
			items := n.Items()
			if listingCollection(items) && len(items) > len(best) {
				best = items
			}
			for _, it := range items {
				walk(it)
			}
		}
	}
	walk(root)
	return best
}

func listingCollection(items []*models.Node) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if it == nil || it.Kind() != models.KindObject {
			return false
		}
	}
	return LooksLikeListing(items[0])
}

func hasAny(n *models.Node, keys []string) bool {
	for _, k := range keys {
		if v, ok := n.Field(k); ok && !v.Empty() {
			return true
		}
	}
	return false
}
