package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/tap-portal-server/internal/apierrors"
	"github.com/dtroode/tap-portal-server/internal/mocks"
	"github.com/dtroode/tap-portal-server/internal/model"
	"github.com/dtroode/tap-portal-server/internal/testutil"
)

var samplePDF = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")

func TestPDFReader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    []byte
		size    int64
		message string
	}{
		{name: "pdf", body: samplePDF, size: int64(len(samplePDF))},
		{name: "empty", size: 0, message: "File is empty"},
		{name: "too large", body: samplePDF, size: MaxResumeSize + 1, message: "File exceeds the 5MB limit"},
		{name: "plain text", body: []byte("hello world"), size: 11, message: "Only PDF files are allowed"},
		{name: "png", body: []byte("\x89PNG\r\n\x1a\n0000"), size: 12, message: "Only PDF files are allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := pdfReader(bytes.NewReader(tt.body), tt.size, MaxResumeSize)
			if tt.message != "" {
				var apiErr *apierrors.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.message, apiErr.Message)
				return
			}
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.body, got)
		})
	}
}

func TestPDFReader_KeepsContentPastSniffWindow(t *testing.T) {
	t.Parallel()

	body := append(append([]byte{}, samplePDF...), []byte(strings.Repeat("x", 4096))...)
	r, err := pdfReader(bytes.NewReader(body), int64(len(body)), MaxResumeSize)
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestResumes(t *testing.T) {
	t.Parallel()
	roll := "2023ug1058"
	key := ResumeKey(roll)

	t.Run("upload", func(t *testing.T) {
		t.Parallel()
		students := mocks.NewStudentStore(t)
		storage := mocks.NewStorage(t)
		svc := NewResumes(students, storage, time.Hour, testutil.MakeNoopLogger())
		svc.now = func() time.Time { return fixedNow }

		storage.On("Upload", mock.Anything, key, mock.Anything, int64(len(samplePDF)), "application/pdf").Return(nil).Once()
		students.On("SetResume", mock.Anything, roll, key, mock.MatchedBy(func(at *time.Time) bool {
			return at != nil && at.Equal(fixedNow)
		})).Return(nil).Once()
		storage.On("PresignGet", mock.Anything, key, time.Hour).Return("https://files.example/resume.pdf", nil).Once()

		resume, err := svc.Upload(context.Background(), roll, bytes.NewReader(samplePDF), int64(len(samplePDF)))
		require.NoError(t, err)
		assert.Equal(t, "https://files.example/resume.pdf", resume.URL)
		require.NotNil(t, resume.UpdatedAt)
		assert.True(t, resume.UpdatedAt.Equal(fixedNow))
	})

	t.Run("get without resume", func(t *testing.T) {
		t.Parallel()
		students := mocks.NewStudentStore(t)
		svc := NewResumes(students, mocks.NewStorage(t), time.Hour, testutil.MakeNoopLogger())
		students.On("GetByRoll", mock.Anything, roll).Return(model.Student{RollNumber: roll}, nil).Once()

		_, err := svc.Get(context.Background(), roll)
		assert.Equal(t, apierrors.KindNotFound, apierrors.KindOf(err))
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		students := mocks.NewStudentStore(t)
		storage := mocks.NewStorage(t)
		svc := NewResumes(students, storage, time.Hour, testutil.MakeNoopLogger())

		students.On("GetByRoll", mock.Anything, roll).Return(model.Student{RollNumber: roll, ResumeKey: key}, nil).Once()
		storage.On("Delete", mock.Anything, key).Return(nil).Once()
		students.On("SetResume", mock.Anything, roll, "", (*time.Time)(nil)).Return(nil).Once()

		require.NoError(t, svc.Delete(context.Background(), roll))
	})
}
