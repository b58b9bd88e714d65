// Package filex reads operator-picked files into attachments.
package filex

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/userdir/internal/client/models"
)

// ReadAttachment loads the file at path. The content type is sniffed from
// the first 512 bytes.
func ReadAttachment(path string) (*models.Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &models.Attachment{
		Name:        filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}
