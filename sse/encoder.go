package sse

import (
	"encoding/json"
	"io"
	"strings"

	apperrors "github.com/kbukum/livescore/errors"
)

var (
	dataPrefix = []byte("data: ")
	frameEnd   = []byte("\n\n")
	emptyFrame = []byte("data: {}\n\n")
)

// Encoder renders values as SSE frames.
type Encoder struct{}

// WriteValue writes v as one "data: <json>\n\n" frame. If v cannot be
// marshaled it writes "data: {}\n\n" instead and returns a
// SERIALIZATION_FAILURE error; the frame is still complete. A failed write
// returns a CLIENT_DISCONNECTED error.
func (Encoder) WriteValue(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		if _, werr := w.Write(emptyFrame); werr != nil {
			return apperrors.ClientDisconnected(werr)
		}
		return apperrors.SerializationFailure(err)
	}

	frame := make([]byte, 0, len(dataPrefix)+len(payload)+len(frameEnd))
	frame = append(frame, dataPrefix...)
	frame = append(frame, payload...)
	frame = append(frame, frameEnd...)
	if _, err := w.Write(frame); err != nil {
		return apperrors.ClientDisconnected(err)
	}
	return nil
}

// WriteComment writes a ": text\n\n" comment frame. Line breaks in text are
// replaced so the comment stays a single line.
func (Encoder) WriteComment(w io.Writer, text string) error {
	text = strings.NewReplacer("\r", " ", "\n", " ").Replace(text)
	if _, err := io.WriteString(w, ": "+text+"\n\n"); err != nil {
		return apperrors.ClientDisconnected(err)
	}
	return nil
}
