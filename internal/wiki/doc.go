// Package wiki models the page identities the list renderer works with:
// namespaces and titles.
//
// Titles are stored by (namespace index, DB key). The DB key is the
// canonical form used for storage and category membership: underscores
// instead of spaces, NFC-normalized, first letter upper-cased.
package wiki
