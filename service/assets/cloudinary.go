package assets

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/SHANKAR-YADAVA/ChatApp/tools/errs"
)

// Config for the Cloudinary account the app uploads chat images to.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Uploader pushes base64 data-URI images to Cloudinary and returns the
// hosted URL. Signed upload, image/upload endpoint.
type Uploader struct {
	http *resty.Client
	cfg  Config
}

func New(cfg Config) *Uploader {
	client := resty.New().
		SetBaseURL("https://api.cloudinary.com/v1_1/" + cfg.CloudName).
		SetTimeout(30 * time.Second)
	return &Uploader{http: client, cfg: cfg}
}

// Enabled reports whether credentials were configured.
func (u *Uploader) Enabled() bool {
	return u.cfg.CloudName != "" && u.cfg.APIKey != "" && u.cfg.APISecret != ""
}

type uploadResp struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the data URI and returns the secure URL of the stored image.
func (u *Uploader) Upload(ctx context.Context, dataURI string) (string, error) {
	if !u.Enabled() {
		return "", errs.New("asset host not configured")
	}
	if dataURI == "" {
		return "", errs.ErrArgs.WithDetail("empty image")
	}

	ts := strconv.FormatInt(time.Now().Unix(), 10)
	var out uploadResp
	resp, err := u.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"file":      dataURI,
			"api_key":   u.cfg.APIKey,
			"timestamp": ts,
			"signature": u.sign(ts),
		}).
		SetResult(&out).
		Post("/image/upload")
	if err != nil {
		return "", errs.WrapMsg(err, "cloudinary upload")
	}
	if resp.IsError() {
		return "", errs.New("cloudinary upload failed", "status", resp.StatusCode(), "message", out.Error.Message)
	}
	if out.SecureURL == "" {
		return "", errs.New("cloudinary returned no url")
	}
	return out.SecureURL, nil
}

// sign builds the SHA1 signature over the signed params, per the upload API:
// sha1 of "timestamp=<ts>" + api secret.
func (u *Uploader) sign(timestamp string) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("timestamp=%s%s", timestamp, u.cfg.APISecret)))
	return hex.EncodeToString(sum[:])
}
