package models

import (
	"encoding/json"
	"strings"
)

// AvatarKind tells which form an Avatar holds.
type AvatarKind int

const (
	AvatarNone AvatarKind = iota
	AvatarURL
	AvatarFile
)

// Attachment is a binary file picked by the operator but not uploaded yet.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size is the attachment length in bytes.
func (a *Attachment) Size() int64 {
	return int64(len(a.Data))
}

// Avatar is either absent, a durable URL, or a pending file.
// Only the URL form survives serialization; a pending file encodes as "".
type Avatar struct {
	url  string
	file *Attachment
}

// AvatarFromURL wraps u. An empty string yields the absent avatar.
func AvatarFromURL(u string) Avatar {
	return Avatar{url: strings.TrimSpace(u)}
}

// AvatarFromFile wraps a pending attachment. A nil attachment yields the
// absent avatar.
func AvatarFromFile(f *Attachment) Avatar {
	return Avatar{file: f}
}

func (a Avatar) Kind() AvatarKind {
	switch {
	case a.file != nil:
		return AvatarFile
	case a.url != "":
		return AvatarURL
	default:
		return AvatarNone
	}
}

// URL returns the durable URL, or "" for the other forms.
func (a Avatar) URL() string {
	if a.file != nil {
		return ""
	}
	return a.url
}

// File returns the pending attachment, or nil.
func (a Avatar) File() *Attachment {
	return a.file
}

// IsDurable reports whether the avatar is an absolute http(s) URL.
func (a Avatar) IsDurable() bool {
	u := a.URL()
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

func (a Avatar) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.URL())
}

func (a *Avatar) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// null, or an object left behind by a serialized file handle.
		*a = Avatar{}
		return nil
	}
	*a = AvatarFromURL(s)
	return nil
}
