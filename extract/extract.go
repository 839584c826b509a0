// Package extract turns uploaded files into plain text for flashcard generation.
package extract

import (
	"context"
	"errors"
	"fmt"
)

// Kind is the input kind chosen on the generation form.
type Kind string

const (
	KindTopic Kind = "topic"
	KindWord  Kind = "word"
	KindImage Kind = "image"
)

var (
	ErrEmptyInput      = errors.New("no input provided")
	ErrUnsupportedKind = errors.New("unsupported input kind")
)

// ParseKind maps an empty value to KindTopic.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindTopic:
		return KindTopic, nil
	case KindWord, KindImage:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}
}

// Extractor returns the plain text contained in data.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Router dispatches word and image uploads to their extractors. Topic input is passed
// through verbatim.
type Router struct {
	Word  Extractor
	Image Extractor
}

func (r Router) Extract(ctx context.Context, kind Kind, topic string, data []byte) (string, error) {
	switch kind {
	case KindTopic:
		if topic == "" {
			return "", ErrEmptyInput
		}
		return topic, nil
	case KindWord, KindImage:
		if len(data) == 0 {
			return "", ErrEmptyInput
		}
		ex := r.Word
		if kind == KindImage {
			ex = r.Image
		}
		if ex == nil {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
		}
		return ex.Extract(ctx, data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
}
