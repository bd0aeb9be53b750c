package services

import (
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadRoot is the directory served statically by the router. Images get
// random file names so an upload can never clobber an existing one.
const UploadRoot = "uploads"

func randomFileName(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s.%s", uuid.NewString(), ext)
}

// SaveUploadedImage writes a multipart upload below UploadRoot/subdir and
// returns the relative path stored in the database ("accommodations/x.jpg").
func SaveUploadedImage(file *multipart.FileHeader, subdir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(UploadRoot, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}

	filename := randomFileName(filepath.Ext(file.Filename))
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := dst.ReadFrom(src); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return filepath.ToSlash(filepath.Join(subdir, filename)), nil
}

// SaveBase64Image decodes a data-URL or bare base64 payload and stores it
// like SaveUploadedImage does.
func SaveBase64Image(b64 string, subdir string) (string, error) {
	if idx := strings.Index(b64, "base64,"); idx >= 0 {
		b64 = b64[idx+7:]
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}

	dir := filepath.Join(UploadRoot, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}

	filename := randomFileName("jpg")
	fullpath := filepath.Join(dir, filename)
	if err := os.WriteFile(fullpath, data, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return filepath.ToSlash(filepath.Join(subdir, filename)), nil
}

// PublicImageURL maps a stored relative path to the URL the router serves.
func PublicImageURL(relPath string) string {
	if relPath == "" {
		return ""
	}
	if strings.HasPrefix(relPath, "http://") || strings.HasPrefix(relPath, "https://") || strings.HasPrefix(relPath, "/") {
		return relPath
	}
	return "/" + UploadRoot + "/" + relPath
}
