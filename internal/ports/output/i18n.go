package output

// Translator renders user-facing messages. locale may be a single tag
// ("fr") or a raw Accept-Language header.
type Translator interface {
	// T renders the message identified by key. data fills template
	// placeholders and may be nil. Unknown keys render as the key itself.
	T(locale, key string, data map[string]any) string
}
