package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
)

// PushPublisher is the subset of the SNS client used for mobile push.
type PushPublisher interface {
	CreatePlatformEndpoint(ctx context.Context, params *awssns.CreatePlatformEndpointInput, optFns ...func(*awssns.Options)) (*awssns.CreatePlatformEndpointOutput, error)
	Publish(ctx context.Context, params *awssns.PublishInput, optFns ...func(*awssns.Options)) (*awssns.PublishOutput, error)
}

type PushService struct {
	db             *gorm.DB
	sns            PushPublisher
	fcmPlatformArn string
	log            *zap.Logger
}

// NewPushService accepts a nil publisher; devices are then stored without an
// endpoint and pushes are skipped.
func NewPushService(db *gorm.DB, sns PushPublisher, fcmPlatformArn string, log *zap.Logger) *PushService {
	return &PushService{db: db, sns: sns, fcmPlatformArn: fcmPlatformArn, log: log}
}

func tokenHash(tok string) string {
	h := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(h[:])
}

func normalizePlatform(platform string) (string, error) {
	switch p := strings.ToLower(strings.TrimSpace(platform)); p {
	case "android", "ios":
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown platform %q", ErrInvalidInput, platform)
	}
}

// RegisterDevice stores a push token for the user, creating an SNS endpoint
// when push is configured. Registering the same token again refreshes it.
func (p *PushService) RegisterDevice(ctx context.Context, userID uint, platform, token string) (*models.UserDevice, error) {
	platform, err := normalizePlatform(platform)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: device token is required", ErrInvalidInput)
	}

	var endpoint string
	if p.sns != nil && p.fcmPlatformArn != "" {
		out, err := p.sns.CreatePlatformEndpoint(ctx, &awssns.CreatePlatformEndpointInput{
			PlatformApplicationArn: aws.String(p.fcmPlatformArn),
			Token:                  aws.String(token),
		})
		if err != nil {
			return nil, fmt.Errorf("create platform endpoint: %w", err)
		}
		endpoint = aws.ToString(out.EndpointArn)
	}

	db := p.db.WithContext(ctx)
	hash := tokenHash(token)
	var dev models.UserDevice
	err = db.Where("user_id = ? AND token_hash = ?", userID, hash).First(&dev).Error
	switch {
	case err == nil:
		dev.Platform = platform
		dev.Enabled = true
		if endpoint != "" {
			dev.EndpointARN = endpoint
		}
		if err := db.Save(&dev).Error; err != nil {
			return nil, err
		}
	case isNotFound(err):
		dev = models.UserDevice{UserID: userID, Platform: platform, TokenHash: hash, EndpointARN: endpoint, Enabled: true}
		if err := db.Create(&dev).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return &dev, nil
}

// SetNotificationsEnabled toggles push for every device the user owns.
func (p *PushService) SetNotificationsEnabled(ctx context.Context, userID uint, enabled bool) (int64, error) {
	res := p.db.WithContext(ctx).Model(&models.UserDevice{}).
		Where("user_id = ?", userID).
		Update("enabled", enabled)
	return res.RowsAffected, res.Error
}

func (p *PushService) ListDevices(ctx context.Context, userID uint) ([]models.UserDevice, error) {
	var devices []models.UserDevice
	err := p.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&devices).Error
	return devices, err
}

// PushToUser publishes to every enabled endpoint of the user. Failures are
// logged per endpoint and do not stop the rest.
func (p *PushService) PushToUser(ctx context.Context, userID uint, title, body string, data map[string]string) {
	if p.sns == nil {
		return
	}
	var devices []models.UserDevice
	if err := p.db.WithContext(ctx).
		Where("user_id = ? AND enabled = ? AND endpoint_arn <> ''", userID, true).
		Find(&devices).Error; err != nil {
		p.log.Warn("load push devices", zap.Uint("user_id", userID), zap.Error(err))
		return
	}
	if len(devices) == 0 {
		return
	}

	msg, err := gcmMessage(title, body, data)
	if err != nil {
		p.log.Warn("encode push message", zap.Error(err))
		return
	}
	for _, d := range devices {
		if _, err := p.sns.Publish(ctx, &awssns.PublishInput{
			MessageStructure: aws.String("json"),
			Message:          aws.String(msg),
			TargetArn:        aws.String(d.EndpointARN),
		}); err != nil {
			p.log.Warn("push publish failed", zap.Uint("device_id", d.ID), zap.Error(err))
		}
	}
}

// gcmMessage builds the SNS envelope, whose per-protocol values are JSON strings.
func gcmMessage(title, body string, data map[string]string) (string, error) {
	gcm, err := json.Marshal(map[string]any{
		"notification": map[string]string{"title": title, "body": body},
		"data":         data,
	})
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(map[string]string{
		"default": body,
		"GCM":     string(gcm),
	})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
