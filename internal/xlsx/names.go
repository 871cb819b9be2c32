package xlsx

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxSheetNameLength is the longest sheet name a workbook accepts.
const MaxSheetNameLength = 31

var sheetNameReplacer = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// SheetTitle turns a translated name into a legal sheet name: characters
// a workbook rejects become underscores, surrounding quotes and spaces are
// dropped and the result is cut to MaxSheetNameLength runes. It returns ""
// when nothing usable is left.
func SheetTitle(name string) string {
	name = sheetNameReplacer.Replace(strings.TrimSpace(name))
	name = strings.TrimSpace(strings.Trim(name, "'"))
	return truncateRunes(name, MaxSheetNameLength)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimRight(string(r[:n]), "'")
}

// nameAllocator hands out sheet names that do not collide, ignoring case
// the way spreadsheet applications do.
type nameAllocator struct {
	taken map[string]struct{}
}

func newNameAllocator(existing []string) *nameAllocator {
	a := &nameAllocator{taken: make(map[string]struct{}, len(existing))}
	for _, n := range existing {
		a.taken[strings.ToLower(n)] = struct{}{}
	}
	return a
}

func (a *nameAllocator) release(name string) {
	delete(a.taken, strings.ToLower(name))
}

// claim reserves base if free, otherwise the first free base_1, base_2, …,
// shortening base so the result fits MaxSheetNameLength.
func (a *nameAllocator) claim(base string) string {
	candidate := base
	for n := 1; ; n++ {
		if _, used := a.taken[strings.ToLower(candidate)]; !used {
			a.taken[strings.ToLower(candidate)] = struct{}{}
			return candidate
		}
		suffix := "_" + strconv.Itoa(n)
		candidate = truncateRunes(base, MaxSheetNameLength-utf8.RuneCountInString(suffix)) + suffix
	}
}
