package mp4probe

import (
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/bits"
	"github.com/Eyevinn/mp4ff/mp4"
)

// readRotation returns the clockwise display rotation of the track with
// trackID. mp4ff decodes tkhd without its transformation matrix, so the
// moov/trak/tkhd boxes are walked and the matrix is read raw.
func readRotation(r io.ReadSeeker, trackID uint32) (int, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	moovStart, moovEnd, err := findBox(r, 0, size, "moov")
	if err != nil {
		return 0, err
	}

	for pos := moovStart; pos < moovEnd; {
		trakStart, trakEnd, err := findBox(r, pos, moovEnd, "trak")
		if err != nil {
			return 0, err
		}
		pos = trakEnd

		tkhdStart, tkhdEnd, err := findBox(r, trakStart, trakEnd, "tkhd")
		if err != nil {
			continue
		}
		payload := make([]byte, tkhdEnd-tkhdStart)
		if _, err := r.Seek(tkhdStart, io.SeekStart); err != nil {
			return 0, err
		}
		if _, err := io.ReadFull(r, payload); err != nil {
			return 0, err
		}
		id, rotation, err := parseTkhd(payload)
		if err == nil && id == trackID {
			return rotation, nil
		}
	}
	return 0, fmt.Errorf("tkhd for track %d not found", trackID)
}

// findBox scans sibling boxes in [start, end) and returns the payload
// bounds of the first one called name.
func findBox(r io.ReadSeeker, start, end int64, name string) (int64, int64, error) {
	for pos := start; pos < end; {
		if _, err := r.Seek(pos, io.SeekStart); err != nil {
			return 0, 0, err
		}
		hdr, err := mp4.DecodeHeader(r)
		if err != nil {
			return 0, 0, err
		}
		next := pos + int64(hdr.Size)
		if next > end {
			return 0, 0, fmt.Errorf("box %s overruns its parent", hdr.Name)
		}
		if hdr.Name == name {
			return pos + int64(hdr.Hdrlen), next, nil
		}
		pos = next
	}
	return 0, 0, fmt.Errorf("box %s not found", name)
}

// parseTkhd reads the track ID and the rotation encoded in the matrix of
// a tkhd payload.
func parseTkhd(payload []byte) (uint32, int, error) {
	sr := bits.NewFixedSliceReader(payload)
	version := sr.ReadUint8()
	sr.SkipBytes(3) // flags

	var trackID uint32
	if version == 1 {
		sr.SkipBytes(16) // creation and modification time
		trackID = sr.ReadUint32()
		sr.SkipBytes(4 + 8) // reserved, duration
	} else {
		sr.SkipBytes(8)
		trackID = sr.ReadUint32()
		sr.SkipBytes(4 + 4)
	}
	sr.SkipBytes(8 + 2 + 2 + 2 + 2) // reserved, layer, alternate group, volume, reserved

	a := sr.ReadInt32()
	b := sr.ReadInt32()
	sr.SkipBytes(4) // u
	c := sr.ReadInt32()
	d := sr.ReadInt32()
	if err := sr.AccError(); err != nil {
		return 0, 0, fmt.Errorf("short tkhd: %w", err)
	}
	return trackID, matrixRotation(a, b, c, d), nil
}

// matrixRotation maps the 2x2 part of a display matrix to a clockwise
// rotation. Anything other than a pure quarter turn counts as 0.
func matrixRotation(a, b, c, d int32) int {
	switch {
	case a == 0 && d == 0 && b > 0 && c < 0:
		return 90
	case a < 0 && d < 0 && b == 0 && c == 0:
		return 180
	case a == 0 && d == 0 && b < 0 && c > 0:
		return 270
	default:
		return 0
	}
}
