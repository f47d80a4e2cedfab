package domain

import (
	"encoding/json"
	"strings"

	"github.com/enescakir/emoji"
)

// AvatarKind tells an emoji avatar apart from an image reference.
type AvatarKind uint8

const (
	AvatarEmoji AvatarKind = iota + 1
	AvatarImage
)

// Avatar is either an emoji or an image URL/path. The zero value is the default trophy.
type Avatar struct {
	kind  AvatarKind
	value string
}

// DefaultAvatar is used when a player does not pick one.
var DefaultAvatar = EmojiAvatar(emoji.Trophy.String())

func EmojiAvatar(e string) Avatar {
	return Avatar{kind: AvatarEmoji, value: e}
}

func ImageAvatar(ref string) Avatar {
	return Avatar{kind: AvatarImage, value: ref}
}

// ParseAvatar classifies a raw avatar string. Local paths and http(s) URLs are images,
// anything else is treated as an emoji.
func ParseAvatar(raw string) Avatar {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return DefaultAvatar
	case strings.HasPrefix(raw, "/"),
		strings.HasPrefix(raw, "http://"),
		strings.HasPrefix(raw, "https://"):
		return ImageAvatar(raw)
	default:
		return EmojiAvatar(raw)
	}
}

func (a Avatar) Kind() AvatarKind {
	if a.kind == 0 {
		return DefaultAvatar.kind
	}
	return a.kind
}

func (a Avatar) IsImage() bool {
	return a.Kind() == AvatarImage
}

// String returns the raw form stored in the score collection.
func (a Avatar) String() string {
	if a.kind == 0 {
		return DefaultAvatar.value
	}
	return a.value
}

func (a Avatar) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Avatar) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = ParseAvatar(raw)
	return nil
}
