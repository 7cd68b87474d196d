package wiki

import "strings"

// Namespace indexes of the standard wiki namespaces.
const (
	NSMedia         = -2
	NSSpecial       = -1
	NSMain          = 0
	NSTalk          = 1
	NSUser          = 2
	NSUserTalk      = 3
	NSProject       = 4
	NSProjectTalk   = 5
	NSFile          = 6
	NSFileTalk      = 7
	NSMediaWiki     = 8
	NSMediaWikiTalk = 9
	NSTemplate      = 10
	NSTemplateTalk  = 11
	NSHelp          = 12
	NSHelpTalk      = 13
	NSCategory      = 14
	NSCategoryTalk  = 15
)

// canonicalNames maps a namespace index to its display name. The main
// namespace has no name.
var canonicalNames = map[int]string{
	NSMedia:         "Media",
	NSSpecial:       "Special",
	NSTalk:          "Talk",
	NSUser:          "User",
	NSUserTalk:      "User talk",
	NSProject:       "Project",
	NSProjectTalk:   "Project talk",
	NSFile:          "File",
	NSFileTalk:      "File talk",
	NSMediaWiki:     "MediaWiki",
	NSMediaWikiTalk: "MediaWiki talk",
	NSTemplate:      "Template",
	NSTemplateTalk:  "Template talk",
	NSHelp:          "Help",
	NSHelpTalk:      "Help talk",
	NSCategory:      "Category",
	NSCategoryTalk:  "Category talk",
}

// namespaceAliases are accepted on input but never produced on output.
var namespaceAliases = map[string]int{
	"image":      NSFile,
	"image_talk": NSFileTalk,
}

// namespaceKeys is the lookup table keyed by folded name.
var namespaceKeys = func() map[string]int {
	keys := make(map[string]int, len(canonicalNames)+len(namespaceAliases))
	for ns, name := range canonicalNames {
		keys[foldNamespaceName(name)] = ns
	}
	for alias, ns := range namespaceAliases {
		keys[alias] = ns
	}
	return keys
}()

// NamespaceIndex resolves a namespace name to its index.
// Lookup ignores case and treats spaces and underscores alike,
// so "user talk", "User_talk" and "USER TALK" all resolve to NSUserTalk.
//
// The main namespace has no name; NamespaceIndex("") reports false.
func NamespaceIndex(name string) (int, bool) {
	key := foldNamespaceName(name)
	if key == "" {
		return 0, false
	}
	ns, ok := namespaceKeys[key]
	return ns, ok
}

// NamespaceName returns the display name of a namespace index.
// Returns "" for the main namespace and for unknown indexes.
func NamespaceName(ns int) string {
	return canonicalNames[ns]
}

func foldNamespaceName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ToLower(name)
}
