package extract

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextEmptyFile(t *testing.T) {
	_, err := NewPDFExtractor().ExtractText(context.Background(), nil)

	var extractErr *Error
	require.True(t, errors.As(err, &extractErr))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

// testdata/handbook.pdf has four pages, the third one without any text
func TestExtractTextJoinsPages(t *testing.T) {
	file, err := os.ReadFile("testdata/handbook.pdf")
	require.NoError(t, err)

	text, err := NewPDFExtractor().ExtractText(context.Background(), file)
	require.NoError(t, err)

	want := "Employee Handbook\nWelcome to Acme Corp." +
		"\n\n" +
		"Vacation Policy\nEmployees receive twenty days of paid leave per year." +
		"\n\n" +
		"Remote Work\nRemote work is allowed two days per week."

	assert.Equal(t, want, text)
}

func TestExtractTextHonorsCanceledContext(t *testing.T) {
	file, err := os.ReadFile("testdata/handbook.pdf")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewPDFExtractor().ExtractText(ctx, file)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractTextTruncatedPDF(t *testing.T) {
	file, err := os.ReadFile("testdata/handbook.pdf")
	require.NoError(t, err)

	_, err = NewPDFExtractor().ExtractText(context.Background(), file[:len(file)/2])

	var extractErr *Error
	require.True(t, errors.As(err, &extractErr))
}

func TestExtractTextRejectsNonPDF(t *testing.T) {
	_, err := NewPDFExtractor().ExtractText(context.Background(), []byte("this is not a pdf at all"))

	var extractErr *Error
	require.True(t, errors.As(err, &extractErr))
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Page: 3, Err: errors.New("bad font")}
	assert.Equal(t, "text extraction failed on page 3: bad font", err.Error())

	err = &Error{Err: ErrNoText}
	assert.Equal(t, "text extraction failed: file contains no extractable text", err.Error())
}
