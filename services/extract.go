package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"apartment-scraper/models"
)

const (
	baseOrigin    = "https://www.otodom.pl"
	localeToken   = "[lang]"
	defaultLocale = "pl"
	// some offer links still point at the old redirecting path
	redirectSegment  = "/hpr/oferta/"
	canonicalSegment = "/oferta/"
)

var (
	// roomsTitleRe matches a digit immediately followed (optionally via
	// hyphen/space) by a room-word stem, e.g. "3 pokojowe", "2-room".
	roomsTitleRe = regexp.MustCompile(`(?i)(\d+)[ -]?(?:pok|room)`)
	// floorTitleRe matches a digit immediately preceding a floor-word stem,
	// e.g. "4 piętro", "3rd floor".
	floorTitleRe = regexp.MustCompile(`(?i)(\d+)(?:[ -]|rd|th|st|nd)*(?:piętr|pietr|floor)`)
	firstIntRe   = regexp.MustCompile(`\d+`)
	numericRe    = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

var groundFloorWords = []string{"parter", "ground floor"}

var elevatorAffirmative = map[string]bool{"tak": true, "yes": true, "true": true}

// Attribute is one labeled key/value pair from the source's own
// characteristics list. Structured attributes outrank free-text heuristics.
type Attribute struct {
	Label string
	Key   string
	Value string
}

// Candidate is the immutable extraction context built once per listing node:
// the node itself, its display title and its flattened attribute list.
type Candidate struct {
	Node  *models.Node
	Title string
	Attrs []Attribute
}

// NewCandidate prepares the extraction context for one listing-shaped node.
func NewCandidate(n *models.Node) *Candidate {
	return &Candidate{
		Node:  n,
		Title: firstText(n, titleKeys),
		Attrs: collectAttributes(n),
	}
}

// firstText returns the first non-empty scalar text under any of the keys.
func firstText(n *models.Node, keys []string) string {
	for _, k := range keys {
		if v, ok := n.Field(k); ok {
			if s := v.Text(); s != "" {
				return s
			}
		}
	}
	return ""
}

// collectAttributes gathers {label|name, key, value} records from every array
// in the candidate's subtree. The characteristics list moves around between
// source versions, so it is found by shape, not by key path.
func collectAttributes(n *models.Node) []Attribute {
	var attrs []Attribute
	var walk func(node *models.Node)
	walk = func(node *models.Node) {
		if node == nil {
			return
		}
		switch node.Kind() {
		case models.KindObject:
			for _, k := range node.Keys() {
				child, _ := node.Field(k)
				walk(child)
			}
		case models.KindArray:
			for _, it := range node.Items() {
				if a, ok := attributeFrom(it); ok {
					attrs = append(attrs, a)
				}
				walk(it)
			}
		}
	}
	walk(n)
	return attrs
}

func attributeFrom(n *models.Node) (Attribute, bool) {
	if n == nil || n.Kind() != models.KindObject {
		return Attribute{}, false
	}
	val, ok := n.Field("value")
	if !ok || val.Empty() {
		return Attribute{}, false
	}
	a := Attribute{Value: val.Text()}
	if lbl, ok := n.Field("label"); ok {
		a.Label = lbl.Text()
	}
	if a.Label == "" {
		if nm, ok := n.Field("name"); ok {
			a.Label = nm.Text()
		}
	}
	if key, ok := n.Field("key"); ok {
		a.Key = key.Text()
	}
	if a.Label == "" && a.Key == "" {
		return Attribute{}, false
	}
	return a, true
}

// attrValue returns the value of the first attribute whose label or key
// contains any of the terms (case-insensitive). Terms must be lowercase.
func attrValue(attrs []Attribute, terms ...string) string {
	for _, a := range attrs {
		label := strings.ToLower(a.Label)
		key := strings.ToLower(a.Key)
		for _, t := range terms {
			if strings.Contains(label, t) || strings.Contains(key, t) {
				return a.Value
			}
		}
	}
	return ""
}

// Every extractor below is an ordered chain of strategies over the candidate
// context. The chain runner takes the first strategy that yields a value and
// folds everything else — absent keys, type mismatches, unparseable text —
// into "unknown" (nil). No extractor may abort the record.

type intStrategy func(*Candidate) (int, bool)
type triStrategy func(*Candidate) (models.Tristate, bool)

var (
	roomsChain    = []intStrategy{roomsFromAttributes, roomsFromTitle}
	floorChain    = []intStrategy{floorFromAttributes, floorFromTitle}
	elevatorChain = []triStrategy{elevatorFromAttributes, elevatorFromTitle}
)

func runIntChain(chain []intStrategy, c *Candidate) *int {
	for _, try := range chain {
		if v, ok := try(c); ok {
			v := v
			return &v
		}
	}
	return nil
}

// ExtractPrice reads the first price-class field and returns the amount in
// currency units plus the currency code when the source states one. Accepts a
// composite {value, currency} object or a bare numeric / numeric string.
func ExtractPrice(c *Candidate) (*int, string) {
	for _, key := range priceKeys {
		v, ok := c.Node.Field(key)
		if !ok || v.Empty() {
			continue
		}
		if amount, currency, ok := parsePriceNode(v); ok {
			return &amount, currency
		}
	}
	return nil, ""
}

func parsePriceNode(v *models.Node) (int, string, bool) {
	switch v.Kind() {
	case models.KindObject:
		val, ok := v.Field("value")
		if !ok {
			return 0, "", false
		}
		f, ok := parseNumeric(val)
		if !ok {
			return 0, "", false
		}
		currency := ""
		if cur, ok := v.Field("currency"); ok {
			currency = cur.Text()
		}
		return int(math.Round(f)), currency, true
	case models.KindScalar:
		f, ok := parseNumeric(v)
		if !ok {
			return 0, "", false
		}
		return int(math.Round(f)), "", true
	}
	return 0, "", false
}

var areaKeys = []string{"area", "areaInSquareMeters", "totalArea", "surface"}

// ExtractArea returns the area in m². Only strictly positive values count.
func ExtractArea(c *Candidate) *float64 {
	for _, key := range areaKeys {
		v, ok := c.Node.Field(key)
		if !ok {
			continue
		}
		if f, ok := parseNumeric(v); ok && f > 0 {
			return &f
		}
	}
	if raw := attrValue(c.Attrs, "powierzchnia", "area"); raw != "" {
		if f, ok := parseNumericText(raw); ok && f > 0 {
			return &f
		}
	}
	return nil
}

// ExtractRooms returns the number of rooms.
func ExtractRooms(c *Candidate) *int {
	return runIntChain(roomsChain, c)
}

func roomsFromAttributes(c *Candidate) (int, bool) {
	raw := attrValue(c.Attrs, "pokoje", "rooms")
	if raw == "" {
		return 0, false
	}
	return firstInt(raw)
}

func roomsFromTitle(c *Candidate) (int, bool) {
	m := roomsTitleRe.FindStringSubmatch(c.Title)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExtractFloor returns the floor number; 0 means the ground floor.
func ExtractFloor(c *Candidate) *int {
	return runIntChain(floorChain, c)
}

func floorFromAttributes(c *Candidate) (int, bool) {
	raw := attrValue(c.Attrs, "piętro", "pietro", "floor")
	if raw == "" {
		return 0, false
	}
	if containsGroundFloorWord(raw) {
		return 0, true
	}
	return firstInt(raw)
}

func floorFromTitle(c *Candidate) (int, bool) {
	if containsGroundFloorWord(c.Title) {
		return 0, true
	}
	m := floorTitleRe.FindStringSubmatch(c.Title)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func containsGroundFloorWord(s string) bool {
	s = strings.ToLower(s)
	for _, w := range groundFloorWords {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// ExtractElevator resolves the elevator tri-state. A missing attribute and a
// silent title mean "unknown", never "absent" — the fallback order is the
// structured attribute, then explicit title phrases, then unknown.
func ExtractElevator(c *Candidate) models.Tristate {
	for _, try := range elevatorChain {
		if v, ok := try(c); ok {
			return v
		}
	}
	return models.TriUnknown
}

func elevatorFromAttributes(c *Candidate) (models.Tristate, bool) {
	raw := strings.TrimSpace(attrValue(c.Attrs, "winda", "elevator"))
	if raw == "" {
		return models.TriUnknown, false
	}
	if elevatorAffirmative[strings.ToLower(raw)] {
		return models.TriPresent, true
	}
	return models.TriAbsent, true
}

func elevatorFromTitle(c *Candidate) (models.Tristate, bool) {
	title := strings.ToLower(c.Title)
	if strings.Contains(title, "bez windy") {
		return models.TriAbsent, true
	}
	for _, w := range []string{"winda", "windą", "elevator"} {
		if strings.Contains(title, w) {
			return models.TriPresent, true
		}
	}
	return models.TriUnknown, false
}

// NormalizeURL canonicalizes a listing path or URL: the locale placeholder is
// pinned, the redirect-prone offer segment collapsed, and relative paths are
// joined against the portal origin. Normalizing an already-normalized URL is
// a no-op.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	u = strings.ReplaceAll(u, localeToken, defaultLocale)
	u = strings.Replace(u, redirectSegment, canonicalSegment, 1)
	if strings.Contains(u, "://") {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return baseOrigin + u
}

// extractAddress resolves the address parts: the structured address
// sub-object wins, then the free-text location label run through
// ResolveAddress.
func extractAddress(c *Candidate) models.AddressParts {
	if parts, ok := addressFromStructured(c.Node); ok {
		return parts
	}
	if label := locationLabel(c.Node); label != "" {
		return ResolveAddress(label)
	}
	return models.AddressParts{}
}

var districtFieldNames = []string{"district", "neighbourhood", "quarter"}

func addressFromStructured(n *models.Node) (models.AddressParts, bool) {
	addr, ok := n.Field("location")
	if ok {
		if nested, found := addr.Field("address"); found {
			addr = nested
		}
	} else if addr, ok = n.Field("address"); !ok {
		return models.AddressParts{}, false
	}
	if addr == nil || addr.Kind() != models.KindObject {
		return models.AddressParts{}, false
	}

	var parts models.AddressParts
	for _, key := range districtFieldNames {
		if v, ok := addr.Field(key); ok {
			if s := nameOf(v); s != "" {
				parts.District = s
				break
			}
		}
	}
	if parts.District == "" {
		// no explicit district means the sub-object is not authoritative
		return models.AddressParts{}, false
	}
	if v, ok := addr.Field("street"); ok {
		parts.Street = nameOf(v)
	}
	if v, ok := addr.Field("subdistrict"); ok {
		parts.Subdistrict = nameOf(v)
	}
	if v, ok := addr.Field("city"); ok {
		parts.City = nameOf(v)
	}
	if v, ok := addr.Field("province"); ok {
		parts.Province = nameOf(v)
	}
	return parts, true
}

// nameOf reads either a scalar or a {name: ...} wrapper.
func nameOf(n *models.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind() == models.KindObject {
		if v, ok := n.Field("name"); ok {
			return v.Text()
		}
		return ""
	}
	return n.Text()
}

var locationLabelKeys = []string{"locationLabel", "address", "location"}

// locationLabel derives a human-readable comma-separated label from the
// free-text location fields.
func locationLabel(n *models.Node) string {
	for _, key := range locationLabelKeys {
		v, ok := n.Field(key)
		if !ok {
			continue
		}
		if v.Kind() == models.KindObject {
			if val, ok := v.Field("value"); ok {
				if s := val.Text(); s != "" {
					return s
				}
			}
			continue
		}
		if s := v.Text(); s != "" {
			return s
		}
	}
	return ""
}

// DistrictGuessFromURL derives a low-confidence district from the offer slug.
// The guess is carried separately and must never overwrite a structured or
// label-derived district; the merger only reads it when nothing else exists.
func DistrictGuessFromURL(normalized string) string {
	u := normalized
	if !strings.Contains(u, canonicalSegment) {
		return ""
	}
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimRight(u, "/")
	if i := strings.LastIndex(u, "/"); i >= 0 {
		u = u[i+1:]
	}
	// offer slugs end with an opaque ID marker
	if i := strings.LastIndex(u, "-ID"); i >= 0 {
		u = u[:i]
	}
	segs := strings.Split(u, "-")
	last := segs[len(segs)-1]
	if len(last) < 3 || firstIntRe.MatchString(last) {
		return ""
	}
	return capitalize(last)
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func firstInt(s string) (int, bool) {
	m := firstIntRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseNumeric accepts numeric scalars and numeric strings. Strings use the
// comma as the decimal separator; spaces and non-breaking spaces are noise.
func parseNumeric(v *models.Node) (float64, bool) {
	if f, ok := v.Num(); ok {
		return f, true
	}
	s, ok := v.Str()
	if !ok {
		return 0, false
	}
	return parseNumericText(s)
}

func parseNumericText(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	m := numericRe.FindString(s) // drops unit suffixes like "m²" or "zł"
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
