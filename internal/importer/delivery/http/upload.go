package http

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"golang-stock-importer/internal/importer/dto"
	"golang-stock-importer/pkg/textenc"

	"github.com/labstack/echo/v4"
)

var csvMimeTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/vnd.ms-excel": true,
	"text/plain":               true,
}

type uploadError struct {
	status  int
	code    string
	message string
}

func (e *uploadError) respond(c echo.Context) error {
	return c.JSON(e.status, dto.Fail(e.code, e.message))
}

// readCSVUpload reads the multipart "file" field and decodes it to UTF-8.
func readCSVUpload(c echo.Context, maxBytes int64) (string, *uploadError) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", &uploadError{http.StatusBadRequest, dto.CodeFileRequired, "file is required"}
	}
	if fh.Size > maxBytes {
		return "", &uploadError{http.StatusRequestEntityTooLarge, dto.CodeFileTooLarge,
			fmt.Sprintf("file must be at most %d bytes", maxBytes)}
	}
	if !isCSV(fh.Filename, fh.Header.Get(echo.HeaderContentType)) {
		return "", &uploadError{http.StatusUnsupportedMediaType, dto.CodeUnsupportedFileType, "only csv files are accepted"}
	}

	f, err := fh.Open()
	if err != nil {
		return "", &uploadError{http.StatusBadRequest, dto.CodeFileRequired, "uploaded file could not be read"}
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return "", &uploadError{http.StatusBadRequest, dto.CodeFileRequired, "uploaded file could not be read"}
	}
	if int64(len(raw)) > maxBytes {
		return "", &uploadError{http.StatusRequestEntityTooLarge, dto.CodeFileTooLarge,
			fmt.Sprintf("file must be at most %d bytes", maxBytes)}
	}

	text, err := textenc.DecodeCSV(raw)
	if err != nil {
		return "", &uploadError{http.StatusBadRequest, dto.CodeInvalidCSVFormat, err.Error()}
	}
	return text, nil
}

func isCSV(filename, contentType string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && csvMimeTypes[mediaType]
}
