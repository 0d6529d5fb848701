package importer

// resolveHeader returns the index of the first alias present in the header
// set, or -1. Matching is exact and case-sensitive, consistent with the
// upstream export dialects.
func resolveHeader(headers []string, aliases []string) int {
	for _, alias := range aliases {
		for i, h := range headers {
			if h == alias {
				return i
			}
		}
	}
	return -1
}
