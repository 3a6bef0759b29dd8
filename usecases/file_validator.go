package usecases

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// allowedUploadTypes maps each accepted extension to the content type its magic bytes must have.
var allowedUploadTypes = map[string]string{
	".pdf": "application/pdf",
}

type FileValidator struct {
	maxSizeBytes int
}

func NewFileValidator(maxSizeMb int) FileValidator {
	return FileValidator{maxSizeBytes: maxSizeMb * 1024 * 1024}
}

// Validate checks an uploaded file. When it is rejected, reason can be shown to the user.
func (v FileValidator) Validate(filename string, content []byte) (ok bool, reason string) {
	if len(content) == 0 {
		return false, "File is empty"
	}
	if len(content) > v.maxSizeBytes {
		return false, fmt.Sprintf("File too large. Maximum size is %d MB", v.maxSizeBytes/(1024*1024))
	}

	extension := strings.ToLower(filepath.Ext(filename))
	expectedType, allowed := allowedUploadTypes[extension]
	if !allowed {
		return false, fmt.Sprintf("Invalid file type. Allowed types: %s", strings.Join(allowedExtensions(), ", "))
	}

	detected := mimetype.Detect(content)
	if !detected.Is(expectedType) {
		return false, fmt.Sprintf("File content does not match its %s extension (detected %s)", extension, detected.String())
	}
	return true, ""
}

func allowedExtensions() []string {
	extensions := make([]string, 0, len(allowedUploadTypes))
	for extension := range allowedUploadTypes {
		extensions = append(extensions, extension)
	}
	sort.Strings(extensions)
	return extensions
}
