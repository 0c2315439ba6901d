package ingest

// AliasSet returns the identifiers a result must be registered under: the
// canonical id plus every identifier variant present in the event. Empty
// identifiers are filtered out and duplicates within the event collapse to
// one; aliases overlapping an earlier event simply take ownership of the key
// (last write wins).
func AliasSet(primary string, secondary ...string) []string {
	seen := make(map[string]bool, len(secondary)+1)
	aliases := make([]string, 0, len(secondary)+1)

	for _, id := range append([]string{primary}, secondary...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		aliases = append(aliases, id)
	}
	return aliases
}
