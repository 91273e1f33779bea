package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"go.uber.org/zap"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/utils"
)

const foodLabel = "Food"

// LabelDetector is the subset of the Rekognition client used to check photos.
type LabelDetector interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// ImageUploader stores a decoded image and returns where it can be fetched.
type ImageUploader interface {
	Upload(ctx context.Context, prefix string, img *utils.DecodedImage) (string, error)
}

type PhotoResult struct {
	URL      string   `json:"url"`
	Verified bool     `json:"verified"`
	Labels   []string `json:"labels,omitempty"`
}

// PhotoService uploads reflection photos and checks that they show food.
type PhotoService struct {
	uploader ImageUploader
	labels   LabelDetector
	log      *zap.Logger
}

// NewPhotoService accepts a nil detector; photos are then stored unverified.
func NewPhotoService(uploader ImageUploader, labels LabelDetector, log *zap.Logger) *PhotoService {
	return &PhotoService{uploader: uploader, labels: labels, log: log}
}

// Store decodes a data URI, uploads it under the user's prefix and labels it.
// Label detection failures leave the photo unverified rather than failing.
func (s *PhotoService) Store(ctx context.Context, userID uint, dataURI string) (*PhotoResult, error) {
	img, err := utils.DecodeDataURI(dataURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	url, err := s.uploader.Upload(ctx, fmt.Sprintf("reflections/%d", userID), img)
	if err != nil {
		return nil, err
	}
	res := &PhotoResult{URL: url}
	if s.labels == nil {
		return res, nil
	}

	labels, err := s.detect(ctx, img.Data)
	if err != nil {
		s.log.Warn("photo label detection failed", zap.Uint("user_id", userID), zap.Error(err))
		return res, nil
	}
	res.Labels = labels
	res.Verified = containsLabel(labels, foodLabel)
	return res, nil
}

func (s *PhotoService) detect(ctx context.Context, data []byte) ([]string, error) {
	out, err := s.labels.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: data},
		MaxLabels:     aws.Int32(10),
		MinConfidence: aws.Float32(75),
	})
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(out.Labels))
	for _, l := range out.Labels {
		labels = append(labels, aws.ToString(l.Name))
	}
	return labels, nil
}

func containsLabel(labels []string, want string) bool {
	for _, l := range labels {
		if strings.EqualFold(l, want) {
			return true
		}
	}
	return false
}
