package filehandler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"StegoPlane/pkg/imageio"
	"StegoPlane/pkg/stego"
)

/*
File explanation:
This file contains the payload side of the tool's file handling.
ReadPayload reads the file to hide, refusing anything the 24-bit header cannot describe.
SaveFile writes a recovered payload to disk.
DetectFileFormat and DetectMimeType identify image inputs and recovered payloads.
*/

// ErrPayloadFileTooLarge is returned when a payload file exceeds stego.MaxPayloadBytes
var ErrPayloadFileTooLarge = errors.New("payload file too large")

// ReadPayload reads the file to hide
func ReadPayload(filePath string) ([]byte, error) {
	return readFileLimited(filePath, stego.MaxPayloadBytes)
}

func readFileLimited(filePath string, limit int64) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to read file: %s is a directory", filePath)
	}

	size := info.Size()
	if size > limit {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadFileTooLarge, size, limit)
	}

	content := make([]byte, size)
	if _, err := io.ReadFull(file, content); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}

// SaveFile saves data to a file
func SaveFile(data []byte, filePath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}

// DetectFileFormat detects the image format of a file
func DetectFileFormat(filePath string) (string, error) {
	// First check extension
	if f, ok := imageio.DefaultRegistry.ForExtension(filepath.Ext(filePath)); ok {
		return f.Name, nil
	}

	// If extension not recognized, try to detect by content
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	contentType := DetectMimeType(buffer[:n])
	if name, ok := strings.CutPrefix(contentType, "image/"); ok {
		if _, known := imageio.DefaultRegistry.ForName(name); known {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %s", imageio.ErrUnsupportedFormat, contentType)
}

// DetectMimeType sniffs the content type of a recovered payload
func DetectMimeType(data []byte) string {
	return http.DetectContentType(data)
}

// IsImageFile checks if a file is an image, by extension or by content when the extension is unknown
func IsImageFile(path string) bool {
	_, err := DetectFileFormat(path)
	return err == nil
}
