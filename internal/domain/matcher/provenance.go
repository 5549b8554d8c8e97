package matcher

import "strings"

const provenancePrefix = "source:"

// ProvenanceTag is the marker written into an expense's details so later
// runs can recognize the transaction it came from.
func ProvenanceTag(transactionID string) string {
	return provenancePrefix + transactionID
}

// HasProvenanceTag reports whether details contains the tag for
// transactionID. This is a plain substring test, matching how earlier runs
// wrote the tag.
func HasProvenanceTag(details, transactionID string) bool {
	return strings.Contains(details, ProvenanceTag(transactionID))
}
