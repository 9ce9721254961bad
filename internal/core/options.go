package core

import "strings"

type Configuration string

const (
	Conventional Configuration = "conventional"
	Canard       Configuration = "canard"
	FlyingWing   Configuration = "flyingwing"
)

func ParseConfiguration(s string) (Configuration, error) {
	switch c := Configuration(strings.ToLower(strings.TrimSpace(s))); c {
	case Conventional, Canard, FlyingWing:
		return c, nil
	}
	return "", OptionError("parameters", "configuration", s, "conventional|canard|flyingwing")
}

// HasTail reports whether the configuration carries a separate pitch surface.
func (c Configuration) HasTail() bool {
	return c == Conventional || c == Canard
}
