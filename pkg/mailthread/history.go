package mailthread

import "strings"

// ThreadInfo is the threading metadata packed into a row's history column.
// Tags absent from the source leave the zero value in place.
type ThreadInfo struct {
	MessageID  string
	InReplyTo  string
	References []string
	ThreadID   string
	IsForward  bool
	IsExternal bool
}

// ParseHistory scans a pipe-delimited history value such as
// "MSG-ID:m2|IN-REPLY-TO:m1|REFS:m0 m1|THREAD:t1|FWD:true". A REFS value of
// "<>" is the exporter's placeholder for no references. Unrecognized tokens
// are skipped so newer exports stay readable.
func ParseHistory(history string) ThreadInfo {
	var info ThreadInfo
	if history == "" {
		return info
	}

	for _, token := range strings.Split(history, "|") {
		switch {
		case strings.HasPrefix(token, "MSG-ID:"):
			info.MessageID = strings.TrimPrefix(token, "MSG-ID:")
		case strings.HasPrefix(token, "IN-REPLY-TO:"):
			info.InReplyTo = strings.TrimPrefix(token, "IN-REPLY-TO:")
		case strings.HasPrefix(token, "REFS:"):
			if refs := strings.TrimPrefix(token, "REFS:"); refs != "<>" {
				info.References = strings.Fields(refs)
			}
		case strings.HasPrefix(token, "THREAD:"):
			info.ThreadID = strings.TrimPrefix(token, "THREAD:")
		case token == "FWD:true":
			info.IsForward = true
		case token == "EXTERNAL:true":
			info.IsExternal = true
		}
	}

	return info
}

// String renders the metadata back into the packed format understood by
// ParseHistory. Zero-valued fields are omitted entirely.
func (ti ThreadInfo) String() string {
	var parts []string
	if ti.MessageID != "" {
		parts = append(parts, "MSG-ID:"+ti.MessageID)
	}
	if ti.InReplyTo != "" {
		parts = append(parts, "IN-REPLY-TO:"+ti.InReplyTo)
	}
	if len(ti.References) > 0 {
		parts = append(parts, "REFS:"+strings.Join(ti.References, " "))
	}
	if ti.ThreadID != "" {
		parts = append(parts, "THREAD:"+ti.ThreadID)
	}
	if ti.IsForward {
		parts = append(parts, "FWD:true")
	}
	if ti.IsExternal {
		parts = append(parts, "EXTERNAL:true")
	}
	return strings.Join(parts, "|")
}
