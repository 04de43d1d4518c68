package backend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/deltahdl/driftgate/internal/errors"
)

func TestLocalStateLocator(t *testing.T) {
	t.Run("no state file means bootstrap", func(t *testing.T) {
		locator := NewLocalStateLocator(t.TempDir(), nil)
		exists, err := locator.StateExists(context.Background())
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("empty state file means bootstrap", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "terraform.tfstate", "")
		locator := NewLocalStateLocator(dir, nil)
		exists, err := locator.StateExists(context.Background())
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("populated state file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "terraform.tfstate", `{"version": 4}`)
		locator := NewLocalStateLocator(dir, nil)
		exists, err := locator.StateExists(context.Background())
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("honors backend path attribute", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "state"), 0o755))
		writeFile(t, dir, filepath.Join("state", "prod.tfstate"), `{"version": 4}`)

		spec := &Spec{Type: "local", Attributes: map[string]any{"path": "state/prod.tfstate"}}
		locator := NewLocalStateLocator(dir, spec)
		exists, err := locator.StateExists(context.Background())
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

type mockS3Object struct {
	mock.Mock
}

func (m *mockS3Object) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.HeadObjectOutput)
	return out, args.Error(1)
}

func TestS3StateLocator(t *testing.T) {
	newLocator := func(client S3ObjectAPI) *S3StateLocator {
		return &S3StateLocator{client: client, bucket: "acme-tofu-state", key: "edge/redirect.tfstate"}
	}

	t.Run("object present", func(t *testing.T) {
		client := new(mockS3Object)
		client.On("HeadObject", mock.Anything, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
			return *in.Bucket == "acme-tofu-state" && *in.Key == "edge/redirect.tfstate"
		})).Return(&s3.HeadObjectOutput{}, nil)

		exists, err := newLocator(client).StateExists(context.Background())
		require.NoError(t, err)
		assert.True(t, exists)
		client.AssertExpectations(t)
	})

	t.Run("missing object means bootstrap", func(t *testing.T) {
		client := new(mockS3Object)
		client.On("HeadObject", mock.Anything, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"})

		exists, err := newLocator(client).StateExists(context.Background())
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("missing bucket means bootstrap", func(t *testing.T) {
		client := new(mockS3Object)
		client.On("HeadObject", mock.Anything, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "bucket does not exist"})

		exists, err := newLocator(client).StateExists(context.Background())
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("access denied surfaces an error", func(t *testing.T) {
		client := new(mockS3Object)
		client.On("HeadObject", mock.Anything, mock.Anything).
			Return(nil, errors.New("api error AccessDenied: not authorized"))

		_, err := newLocator(client).StateExists(context.Background())
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeStateProbeError))
	})
}

func TestNewS3StateLocatorValidation(t *testing.T) {
	_, err := NewS3StateLocator(aws.Config{}, &Spec{Type: "s3", Attributes: map[string]any{"bucket": "only-bucket"}})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeBackendParseError))
}
