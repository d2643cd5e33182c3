package websocket

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	opText  = 1
	opClose = 8
)

// writeFrame sends one unmasked text frame, as servers must.
func writeFrame(bufrw *bufio.ReadWriter, payload []byte) error {
	length := uint64(len(payload))

	header := []byte{0x80 | opText, 0}

	switch {
	case length < 126:
		header[1] = byte(length)
	case length < 1<<16:
		header[1] = 126
		size := make([]byte, 2)
		binary.BigEndian.PutUint16(size, uint16(length))
		header = append(header, size...)
	default:
		header[1] = 127
		size := make([]byte, 8)
		binary.BigEndian.PutUint64(size, length)
		header = append(header, size...)
	}

	if _, err := bufrw.Write(append(header, payload...)); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	if err := bufrw.Flush(); err != nil {
		return fmt.Errorf("failed to flush buffer: %w", err)
	}

	return nil
}

// readMessage reads one client frame and returns its unmasked payload.
func readMessage(bufrw *bufio.ReadWriter) ([]byte, error) {
	header := make([]byte, 2)
	if _, err := io.ReadFull(bufrw, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	opCode := header[0] & 0x0f
	if opCode == opClose {
		return nil, io.EOF
	}

	masked := header[1]>>7 == 1

	length := uint64(header[1] & 0x7f)
	switch length {
	case 126:
		size := make([]byte, 2)
		if _, err := io.ReadFull(bufrw, size); err != nil {
			return nil, fmt.Errorf("failed to read payload length: %w", err)
		}
		length = uint64(binary.BigEndian.Uint16(size))
	case 127:
		size := make([]byte, 8)
		if _, err := io.ReadFull(bufrw, size); err != nil {
			return nil, fmt.Errorf("failed to read payload length: %w", err)
		}
		length = binary.BigEndian.Uint64(size)
	}

	var mask []byte
	if masked {
		mask = make([]byte, 4)
		if _, err := io.ReadFull(bufrw, mask); err != nil {
			return nil, fmt.Errorf("failed to read mask: %w", err)
		}
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(bufrw, payload); err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	if masked {
		for i := range payload {
			payload[i] ^= mask[i%4]
		}
	}

	return payload, nil
}
