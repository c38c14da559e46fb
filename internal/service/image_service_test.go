package service

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/elvinq/carbazar/internal/models"
	"github.com/elvinq/carbazar/internal/repository"
	"github.com/elvinq/carbazar/internal/storage"
	"github.com/elvinq/carbazar/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type imageTestEnv struct {
	db        *gorm.DB
	service   *ImageService
	imageRepo *repository.CarImageRepository
	uploadDir string
	owner     *models.User
	other     *models.User
	car       *models.Car
}

func setupImageTestEnv(t *testing.T) imageTestEnv {
	t.Helper()

	db := testutil.SetupTestDatabase(t)
	uploadDir := t.TempDir()

	userRepo := repository.NewUserRepository(db)
	carRepo := repository.NewCarRepository(db)
	imageRepo := repository.NewCarImageRepository(db)
	svc := NewImageService(carRepo, imageRepo, NewGuard(userRepo), storage.NewFileStore(uploadDir))

	owner := testutil.CreateTestUser(t, db, "owner", "owner@example.com", "password1", models.RoleUser)
	other := testutil.CreateTestUser(t, db, "other", "other@example.com", "password1", models.RoleUser)
	car := testutil.CreateTestCar(t, db, owner.ID, "listing with images")

	return imageTestEnv{
		db:        db,
		service:   svc,
		imageRepo: imageRepo,
		uploadDir: uploadDir,
		owner:     owner,
		other:     other,
		car:       car,
	}
}

func jpegFile(name string, size int) UploadFile {
	return UploadFile{
		Name:        name,
		Size:        int64(size),
		ContentType: "image/jpeg",
		Reader:      bytes.NewReader(bytes.Repeat([]byte{0xFF}, size)),
	}
}

func TestImageService_Upload_FirstImageBecomesMain(t *testing.T) {
	env := setupImageTestEnv(t)
	actor := actorFor(env.owner)

	images, err := env.service.Upload(env.car.ID, actor, []UploadFile{
		jpegFile("front.jpg", 100),
		jpegFile("back.jpg", 100),
	})
	require.NoError(t, err)
	require.Len(t, images, 2)

	require.True(t, images[0].IsMain)
	require.False(t, images[1].IsMain)
	require.Equal(t, 0, images[0].SortOrder)
	require.Equal(t, 1, images[1].SortOrder)

	// Files landed under the per-listing directory.
	entries, err := os.ReadDir(filepath.Join(env.uploadDir, "cars", fmt.Sprintf("%d", env.car.ID)))
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestImageService_Upload_OrderContinues(t *testing.T) {
	env := setupImageTestEnv(t)
	actor := actorFor(env.owner)

	_, err := env.service.Upload(env.car.ID, actor, []UploadFile{jpegFile("a.jpg", 10)})
	require.NoError(t, err)

	images, err := env.service.Upload(env.car.ID, actor, []UploadFile{jpegFile("b.jpg", 10), jpegFile("c.jpg", 10)})
	require.NoError(t, err)
	require.Len(t, images, 3)
	require.Equal(t, []int{0, 1, 2}, []int{images[0].SortOrder, images[1].SortOrder, images[2].SortOrder})

	// Exactly one main across batches.
	mains := 0
	for _, img := range images {
		if img.IsMain {
			mains++
		}
	}
	require.Equal(t, 1, mains)
}

func TestImageService_Upload_Validation(t *testing.T) {
	env := setupImageTestEnv(t)
	actor := actorFor(env.owner)

	cases := []struct {
		name  string
		file  UploadFile
		field string
	}{
		{"too large", jpegFile("big.jpg", 5*1024*1024+1), "file-too-large"},
		{"not an image", UploadFile{Name: "doc.jpg", Size: 10, ContentType: "application/pdf", Reader: strings.NewReader("0123456789")}, "not-image"},
		{"bad extension", UploadFile{Name: "anim.gif", Size: 10, ContentType: "image/gif", Reader: strings.NewReader("0123456789")}, "bad-extension"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.service.Upload(env.car.ID, actor, []UploadFile{tc.file})
			ve, ok := AsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)
			require.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestImageService_Upload_MissingExtensionDefaultsToJpg(t *testing.T) {
	env := setupImageTestEnv(t)

	images, err := env.service.Upload(env.car.ID, actorFor(env.owner), []UploadFile{
		{Name: "noext", Size: 10, ContentType: "image/jpeg", Reader: strings.NewReader("0123456789")},
	})
	require.NoError(t, err)
	require.Len(t, images, 1)
	require.True(t, strings.HasSuffix(images[0].ImageURL, ".jpg"))
}

func TestImageService_Upload_EmptyBatch(t *testing.T) {
	env := setupImageTestEnv(t)

	_, err := env.service.Upload(env.car.ID, actorFor(env.owner), nil)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, "files", ve.Field)
}

func TestImageService_Upload_NonOwnerForbidden(t *testing.T) {
	env := setupImageTestEnv(t)

	_, err := env.service.Upload(env.car.ID, actorFor(env.other), []UploadFile{jpegFile("x.jpg", 10)})
	require.ErrorIs(t, err, ErrNotOwner)
}

func TestImageService_Upload_InactiveListingNotFound(t *testing.T) {
	env := setupImageTestEnv(t)
	require.NoError(t, env.db.Model(env.car).Update("is_active", false).Error)

	_, err := env.service.Upload(env.car.ID, actorFor(env.owner), []UploadFile{jpegFile("x.jpg", 10)})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestImageService_SetMain(t *testing.T) {
	env := setupImageTestEnv(t)
	actor := actorFor(env.owner)

	images, err := env.service.Upload(env.car.ID, actor, []UploadFile{
		jpegFile("a.jpg", 10), jpegFile("b.jpg", 10), jpegFile("c.jpg", 10),
	})
	require.NoError(t, err)

	require.NoError(t, env.service.SetMain(env.car.ID, images[2].ID, actor))

	after, err := env.imageRepo.ListByCar(env.car.ID)
	require.NoError(t, err)
	for _, img := range after {
		require.Equal(t, img.ID == images[2].ID, img.IsMain)
	}
}

func TestImageService_SetMain_ForeignImage(t *testing.T) {
	env := setupImageTestEnv(t)
	actor := actorFor(env.owner)

	otherCar := testutil.CreateTestCar(t, env.db, env.owner.ID, "second listing")
	foreign := testutil.CreateTestImage(t, env.db, otherCar.ID, "/uploads/cars/x/a.jpg", true, 0)

	err := env.service.SetMain(env.car.ID, foreign.ID, actor)
	require.ErrorIs(t, err, ErrImageNotFound)
}

func TestImageService_Delete_PromotesNewMain(t *testing.T) {
	env := setupImageTestEnv(t)
	actor := actorFor(env.owner)

	images, err := env.service.Upload(env.car.ID, actor, []UploadFile{
		jpegFile("a.jpg", 10), jpegFile("b.jpg", 10),
	})
	require.NoError(t, err)
	require.True(t, images[0].IsMain)

	require.NoError(t, env.service.Delete(env.car.ID, images[0].ID, actor))

	after, err := env.imageRepo.ListByCar(env.car.ID)
	require.NoError(t, err)
	require.Len(t, after, 1)
	require.Equal(t, images[1].ID, after[0].ID)
	require.True(t, after[0].IsMain, "lowest-ordered survivor must inherit main")
}

func TestImageService_Delete_NonMainDoesNotReassign(t *testing.T) {
	env := setupImageTestEnv(t)
	actor := actorFor(env.owner)

	images, err := env.service.Upload(env.car.ID, actor, []UploadFile{
		jpegFile("a.jpg", 10), jpegFile("b.jpg", 10),
	})
	require.NoError(t, err)

	require.NoError(t, env.service.Delete(env.car.ID, images[1].ID, actor))

	after, err := env.imageRepo.ListByCar(env.car.ID)
	require.NoError(t, err)
	require.Len(t, after, 1)
	require.True(t, after[0].IsMain)
}

func TestImageService_Delete_LastImage(t *testing.T) {
	env := setupImageTestEnv(t)
	actor := actorFor(env.owner)

	images, err := env.service.Upload(env.car.ID, actor, []UploadFile{jpegFile("only.jpg", 10)})
	require.NoError(t, err)

	require.NoError(t, env.service.Delete(env.car.ID, images[0].ID, actor))

	after, err := env.imageRepo.ListByCar(env.car.ID)
	require.NoError(t, err)
	require.Empty(t, after)
}

func TestImageService_Delete_MissingFileOnDiskIsFine(t *testing.T) {
	env := setupImageTestEnv(t)
	actor := actorFor(env.owner)

	image := testutil.CreateTestImage(t, env.db, env.car.ID, "/uploads/cars/999/ghost.jpg", true, 0)

	require.NoError(t, env.service.Delete(env.car.ID, image.ID, actor))
}

func TestImageService_Reorder(t *testing.T) {
	env := setupImageTestEnv(t)
	actor := actorFor(env.owner)

	images, err := env.service.Upload(env.car.ID, actor, []UploadFile{
		jpegFile("a.jpg", 10), jpegFile("b.jpg", 10), jpegFile("c.jpg", 10),
	})
	require.NoError(t, err)

	require.NoError(t, env.service.Reorder(env.car.ID, actor, []uint{images[2].ID, images[0].ID, images[1].ID}))

	after, err := env.imageRepo.ListByCar(env.car.ID)
	require.NoError(t, err)
	require.Equal(t, images[2].ID, after[0].ID)
	require.Equal(t, images[0].ID, after[1].ID)
	require.Equal(t, images[1].ID, after[2].ID)
}

func TestImageService_Reorder_ForeignIDRejectedWithoutMutation(t *testing.T) {
	env := setupImageTestEnv(t)
	actor := actorFor(env.owner)

	images, err := env.service.Upload(env.car.ID, actor, []UploadFile{
		jpegFile("a.jpg", 10), jpegFile("b.jpg", 10),
	})
	require.NoError(t, err)

	otherCar := testutil.CreateTestCar(t, env.db, env.owner.ID, "second listing")
	foreign := testutil.CreateTestImage(t, env.db, otherCar.ID, "/uploads/cars/x/z.jpg", true, 0)

	err = env.service.Reorder(env.car.ID, actor, []uint{foreign.ID, images[0].ID})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, "foreign-image-id", ve.Field)

	// Re-read shows order values untouched.
	after, err := env.imageRepo.ListByCar(env.car.ID)
	require.NoError(t, err)
	require.Equal(t, images[0].ID, after[0].ID)
	require.Equal(t, 0, after[0].SortOrder)
	require.Equal(t, images[1].ID, after[1].ID)
	require.Equal(t, 1, after[1].SortOrder)
}

func TestImageService_Reorder_EmptyList(t *testing.T) {
	env := setupImageTestEnv(t)

	err := env.service.Reorder(env.car.ID, actorFor(env.owner), nil)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, "image-ids", ve.Field)
}

// Mirrors the listing's documented image lifecycle end to end: two uploads,
// main assignment, deletion, promotion.
func TestImageService_Lifecycle(t *testing.T) {
	env := setupImageTestEnv(t)
	actor := actorFor(env.owner)

	images, err := env.service.Upload(env.car.ID, actor, []UploadFile{
		jpegFile("first.jpg", 10),
		jpegFile("second.jpg", 10),
	})
	require.NoError(t, err)
	require.True(t, images[0].IsMain)
	require.False(t, images[1].IsMain)
	require.Equal(t, 0, images[0].SortOrder)
	require.Equal(t, 1, images[1].SortOrder)

	require.NoError(t, env.service.Delete(env.car.ID, images[0].ID, actor))

	after, err := env.imageRepo.ListByCar(env.car.ID)
	require.NoError(t, err)
	require.Len(t, after, 1)
	require.Equal(t, images[1].ID, after[0].ID)
	require.True(t, after[0].IsMain)
}
