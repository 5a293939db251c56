package gps

import "io"

// FakeReceiver is a test double that returns scripted NMEA sentences.
type FakeReceiver struct {
	// Sentences contains scripted lines to return, one per call.
	Sentences []string

	// ReadError, if set, will be returned by ReadSentence.
	ReadError error

	// Closed tracks if Close was called.
	Closed bool

	index int
}

// NewFakeReceiver creates a FakeReceiver with the given sentences.
func NewFakeReceiver(sentences ...string) *FakeReceiver {
	return &FakeReceiver{Sentences: sentences}
}

// ReadSentence returns the next scripted sentence, or io.EOF once the
// script is exhausted.
func (f *FakeReceiver) ReadSentence() (string, error) {
	if f.ReadError != nil {
		return "", f.ReadError
	}
	if f.index >= len(f.Sentences) {
		return "", io.EOF
	}
	s := f.Sentences[f.index]
	f.index++
	return s, nil
}

// Close marks the receiver as closed.
func (f *FakeReceiver) Close() error {
	f.Closed = true
	return nil
}
