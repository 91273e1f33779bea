package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/utils"
)

type fakeUploader struct {
	prefix string
	img    *utils.DecodedImage
}

func (f *fakeUploader) Upload(_ context.Context, prefix string, img *utils.DecodedImage) (string, error) {
	f.prefix, f.img = prefix, img
	return "https://cdn.test/" + prefix + "/photo" + img.Ext, nil
}

type fakeDetector struct {
	labels []string
	err    error
}

func (f fakeDetector) DetectLabels(context.Context, *rekognition.DetectLabelsInput, ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := &rekognition.DetectLabelsOutput{}
	for _, l := range f.labels {
		out.Labels = append(out.Labels, types.Label{Name: aws.String(l)})
	}
	return out, nil
}

var pngURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not really a png"))

func TestPhotoStore_VerifiesFood(t *testing.T) {
	up := &fakeUploader{}
	svc := NewPhotoService(up, fakeDetector{labels: []string{"Plate", "food"}}, zap.NewNop())

	res, err := svc.Store(context.Background(), 4, pngURI)
	require.NoError(t, err)
	assert.Equal(t, "reflections/4", up.prefix)
	assert.Equal(t, "image/png", up.img.ContentType)
	assert.Equal(t, "https://cdn.test/reflections/4/photo.png", res.URL)
	assert.True(t, res.Verified)
	assert.Equal(t, []string{"Plate", "food"}, res.Labels)
}

func TestPhotoStore_Unverified(t *testing.T) {
	cases := map[string]LabelDetector{
		"no food":       fakeDetector{labels: []string{"Cat"}},
		"detector down": fakeDetector{err: errors.New("throttled")},
		"no detector":   nil,
	}
	for name, det := range cases {
		t.Run(name, func(t *testing.T) {
			svc := NewPhotoService(&fakeUploader{}, det, zap.NewNop())
			res, err := svc.Store(context.Background(), 1, pngURI)
			require.NoError(t, err)
			assert.False(t, res.Verified)
			assert.NotEmpty(t, res.URL)
		})
	}
}

func TestPhotoStore_RejectsBadURI(t *testing.T) {
	up := &fakeUploader{}
	svc := NewPhotoService(up, nil, zap.NewNop())
	_, err := svc.Store(context.Background(), 1, "data:text/plain;base64,aGk=")
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, up.img)
}
