package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sdsposter/internal/config"
	"sdsposter/internal/domain"
	"sdsposter/internal/port"
	"sdsposter/internal/service"
	"sdsposter/mocks"
)

type pictogramFixture struct {
	repo    *mocks.MockPictogramOverrideRepo
	storage *mocks.MockObjectStorage
	svc     service.PictogramService
}

func newPictogramFixture(t *testing.T) *pictogramFixture {
	t.Helper()
	f := &pictogramFixture{
		repo:    new(mocks.MockPictogramOverrideRepo),
		storage: new(mocks.MockObjectStorage),
	}
	f.svc = service.NewPictogramService(
		f.repo,
		f.storage,
		&config.S3Config{Bucket: "posters", KeyPrefix: "pictograms", PresignExpiry: 3600},
		&config.UploadConfig{MaxFileSizeMB: 1, MaxImageSizeKB: 1},
	)
	return f
}

func storedOverride(code domain.PictogramCode, key string) domain.PictogramOverride {
	return domain.PictogramOverride{
		Code:        code,
		S3Bucket:    "posters",
		S3Key:       key,
		ContentType: "image/png",
		FileSize:    42,
		UpdatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestPictogramService_List(t *testing.T) {
	f := newPictogramFixture(t)
	f.repo.On("List", mock.Anything).Return([]domain.PictogramOverride{
		storedOverride(domain.PictogramCorrosive, "pictograms/GHS-05/a.png"),
	}, nil)
	f.storage.On("GetPresignedURL", mock.Anything, "posters", "pictograms/GHS-05/a.png", int64(3600)).
		Return("https://s3.example.com/a.png?sig", nil)

	views, err := f.svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, views, 9)
	assert.Equal(t, domain.PictogramExplosive, views[0].Code)
	assert.Equal(t, domain.PictogramSourceDefault, views[0].Source)
	assert.Nil(t, views[0].UpdatedAt)

	corrosive := views[4]
	assert.Equal(t, domain.PictogramCorrosive, corrosive.Code)
	assert.Equal(t, "https://s3.example.com/a.png?sig", corrosive.ImageURL)
	assert.Equal(t, corrosive.ImageURL, corrosive.OverrideURL)
	assert.Equal(t, domain.PictogramSourceOverride, corrosive.Source)
	require.NotNil(t, corrosive.UpdatedAt)
}

func TestPictogramService_Overrides_Cached(t *testing.T) {
	f := newPictogramFixture(t)
	f.repo.On("List", mock.Anything).Return([]domain.PictogramOverride{
		storedOverride(domain.PictogramToxic, "pictograms/GHS-06/b.png"),
	}, nil).Once()
	f.storage.On("GetPresignedURL", mock.Anything, "posters", "pictograms/GHS-06/b.png", int64(3600)).
		Return("https://s3.example.com/b.png", nil).Once()

	first, err := f.svc.Overrides(context.Background())
	require.NoError(t, err)
	second, err := f.svc.Overrides(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "https://s3.example.com/b.png", second[domain.PictogramToxic])
	f.repo.AssertNumberOfCalls(t, "List", 1)
}

func TestPictogramService_Overrides_PresignFailureSkipsCode(t *testing.T) {
	f := newPictogramFixture(t)
	f.repo.On("List", mock.Anything).Return([]domain.PictogramOverride{
		storedOverride(domain.PictogramToxic, "pictograms/GHS-06/b.png"),
	}, nil)
	f.storage.On("GetPresignedURL", mock.Anything, "posters", mock.Anything, int64(3600)).
		Return("", errors.New("no credentials"))

	overrides, err := f.svc.Overrides(context.Background())

	require.NoError(t, err)
	assert.Empty(t, overrides)
}

func TestPictogramService_Overrides_RepoError(t *testing.T) {
	f := newPictogramFixture(t)
	f.repo.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := f.svc.Overrides(context.Background())

	assert.Error(t, err)
}

func TestPictogramService_SetOverride_ReplacesPrevious(t *testing.T) {
	f := newPictogramFixture(t)
	previous := storedOverride(domain.PictogramGas, "pictograms/GHS-04/old.png")

	f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "posters" &&
			strings.HasPrefix(in.Key, "pictograms/GHS-04/") &&
			strings.HasSuffix(in.Key, ".png") &&
			in.ContentType == "image/png" &&
			in.CacheControl != "" &&
			in.Size == int64(len(pngHeader))
	})).Return(&port.UploadOutput{}, nil)
	f.repo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.PictogramOverride")).Return(&previous, nil)
	f.storage.On("Delete", mock.Anything, "posters", "pictograms/GHS-04/old.png").Return(nil)
	f.storage.On("GetPresignedURL", mock.Anything, "posters", mock.Anything, int64(3600)).
		Return("https://s3.example.com/new.png", nil)

	view, err := f.svc.SetOverride(context.Background(), service.PictogramUploadInput{
		Code: "ghs-04",
		Body: bytes.NewReader(pngHeader),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.PictogramGas, view.Code)
	assert.Equal(t, "https://s3.example.com/new.png", view.ImageURL)
	assert.Equal(t, domain.PictogramSourceOverride, view.Source)
	f.storage.AssertExpectations(t)
	f.repo.AssertExpectations(t)
}

func TestPictogramService_SetOverride_InvalidatesCache(t *testing.T) {
	f := newPictogramFixture(t)
	f.repo.On("List", mock.Anything).Return([]domain.PictogramOverride{}, nil).Once()
	_, err := f.svc.Overrides(context.Background())
	require.NoError(t, err)

	f.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	f.repo.On("Upsert", mock.Anything, mock.Anything).Return(nil, nil)
	f.storage.On("GetPresignedURL", mock.Anything, "posters", mock.Anything, int64(3600)).
		Return("https://s3.example.com/new.png", nil)
	_, err = f.svc.SetOverride(context.Background(), service.PictogramUploadInput{
		Code: "GHS-01",
		Body: bytes.NewReader(pngHeader),
	})
	require.NoError(t, err)

	stored := storedOverride(domain.PictogramExplosive, "pictograms/GHS-01/x.png")
	f.repo.On("List", mock.Anything).Return([]domain.PictogramOverride{stored}, nil).Once()
	overrides, err := f.svc.Overrides(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "https://s3.example.com/new.png", overrides[domain.PictogramExplosive])
	f.repo.AssertNumberOfCalls(t, "List", 2)
}

func TestPictogramService_SetOverride_Validation(t *testing.T) {
	f := newPictogramFixture(t)

	_, err := f.svc.SetOverride(context.Background(), service.PictogramUploadInput{
		Code: "GHS-10", Body: bytes.NewReader(pngHeader),
	})
	assert.ErrorIs(t, err, domain.ErrUnknownPictogram)

	_, err = f.svc.SetOverride(context.Background(), service.PictogramUploadInput{
		Code: "GHS-01", Body: strings.NewReader("not an image"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)

	_, err = f.svc.SetOverride(context.Background(), service.PictogramUploadInput{
		Code: "GHS-01", Body: bytes.NewReader(nil),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)

	big := append(append([]byte{}, pngHeader...), make([]byte, 2048)...)
	_, err = f.svc.SetOverride(context.Background(), service.PictogramUploadInput{
		Code: "GHS-01", Body: bytes.NewReader(big),
	})
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)

	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestPictogramService_SetOverride_UploadFailure(t *testing.T) {
	f := newPictogramFixture(t)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	_, err := f.svc.SetOverride(context.Background(), service.PictogramUploadInput{
		Code: "GHS-02", Body: bytes.NewReader(pngHeader),
	})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	f.repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestPictogramService_SetOverride_RepoFailureRemovesUpload(t *testing.T) {
	f := newPictogramFixture(t)
	var uploadedKey string
	f.storage.On("Upload", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			uploadedKey = args.Get(1).(port.UploadInput).Key
		}).
		Return(&port.UploadOutput{}, nil)
	f.repo.On("Upsert", mock.Anything, mock.Anything).Return(nil, errors.New("unique violation"))
	f.storage.On("Delete", mock.Anything, "posters", mock.Anything).Return(nil)

	_, err := f.svc.SetOverride(context.Background(), service.PictogramUploadInput{
		Code: "GHS-02", Body: bytes.NewReader(pngHeader),
	})

	assert.Error(t, err)
	f.storage.AssertCalled(t, "Delete", mock.Anything, "posters", uploadedKey)
}

func TestPictogramService_DeleteOverride(t *testing.T) {
	f := newPictogramFixture(t)
	existing := storedOverride(domain.PictogramHarmful, "pictograms/GHS-07/c.png")
	f.repo.On("GetByCode", mock.Anything, domain.PictogramHarmful).Return(&existing, nil)
	f.repo.On("Delete", mock.Anything, domain.PictogramHarmful).Return(nil)
	f.storage.On("Delete", mock.Anything, "posters", "pictograms/GHS-07/c.png").Return(errors.New("timeout"))

	err := f.svc.DeleteOverride(context.Background(), "GHS-07")

	require.NoError(t, err)
	f.repo.AssertExpectations(t)
	f.storage.AssertExpectations(t)
}

func TestPictogramService_DeleteOverride_NotFound(t *testing.T) {
	f := newPictogramFixture(t)
	f.repo.On("GetByCode", mock.Anything, domain.PictogramHarmful).Return(nil, domain.ErrNotFound)

	err := f.svc.DeleteOverride(context.Background(), "GHS-07")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
