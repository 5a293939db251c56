package gps

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// DefaultBaudRate is the standard rate for u-blox class GPS modules.
const DefaultBaudRate = 9600

// sentenceBufSize bounds a single NMEA sentence. The standard caps
// sentences at 82 characters; anything larger is line noise.
const sentenceBufSize = 128

// SerialReceiver reads NMEA sentences from a GPS module on a serial port.
type SerialReceiver struct {
	port serial.Port
	sr   sentenceReader
}

// OpenSerial opens the named serial port at the given baud rate.
func OpenSerial(portName string, baudRate int) (*SerialReceiver, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}

	port, err := serial.Open(portName, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}

	r := &SerialReceiver{port: port}
	r.sr.src = port
	return r, nil
}

// ReadSentence blocks until a complete line arrives on the port.
func (r *SerialReceiver) ReadSentence() (string, error) {
	return r.sr.readLine()
}

// Close releases the serial port.
func (r *SerialReceiver) Close() error {
	return r.port.Close()
}

// sentenceReader extracts newline-terminated lines from a byte stream
// through a single fixed-size buffer. A line that overflows the buffer is
// discarded wholesale and the cursor resynchronizes at the next newline.
type sentenceReader struct {
	src io.Reader
	buf [sentenceBufSize]byte
	n   int
}

func (s *sentenceReader) readLine() (string, error) {
	discarding := false
	for {
		var b [1]byte
		n, err := s.src.Read(b[:])
		if err != nil {
			s.n = 0
			return "", fmt.Errorf("read sentence: %w", err)
		}
		if n == 0 {
			continue
		}

		switch ch := b[0]; {
		case ch == '\n' || ch == '\r':
			if discarding {
				discarding = false
				continue
			}
			if s.n == 0 {
				continue // empty line or the LF of a CRLF pair
			}
			line := string(s.buf[:s.n])
			s.n = 0
			return line, nil

		case discarding:
			// Skip until the oversized line ends.

		case s.n == len(s.buf):
			// Overflow: truncate and resync at the next newline.
			s.n = 0
			discarding = true

		default:
			s.buf[s.n] = ch
			s.n++
		}
	}
}
