package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/SHANKAR-YADAVA/ChatApp/logger"
	storageredis "github.com/SHANKAR-YADAVA/ChatApp/service/storage/redis"
	"github.com/SHANKAR-YADAVA/ChatApp/tools/errs"
)

const cacheTTL = 24 * time.Hour

// Config for the language-model translation backend.
type Config struct {
	APIKey  string
	BaseURL string // e.g. https://api.groq.com/openai/v1
	Model   string // e.g. llama3-8b-8192
}

// Cache holds translated text keyed by content hash. A hit must skip the
// upstream call entirely.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// Translator turns chat text into a target language through an OpenAI-style
// chat-completions endpoint. Results are cached so repeated translations of
// the same message cost one upstream call.
type Translator struct {
	http  *resty.Client
	cfg   Config
	cache Cache
}

func New(cfg Config) *Translator {
	return NewWithCache(cfg, redisCache{})
}

func NewWithCache(cfg Config, cache Cache) *Translator {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetTimeout(15 * time.Second)
	return &Translator{http: client, cfg: cfg, cache: cache}
}

// Enabled reports whether an API key was configured.
func (t *Translator) Enabled() bool { return t.cfg.APIKey != "" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionsReq struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type completionsResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You are a translation model. Only return the translated " +
	"version of the input text in the target language. Do not add explanations, " +
	"transliterations, or any formatting."

// Translate returns text in targetLang.
func (t *Translator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if text == "" || targetLang == "" {
		return "", errs.ErrArgs.WithDetail("text and targetLang are required")
	}
	if !t.Enabled() {
		return "", errs.New("translation backend not configured")
	}

	key := cacheKey(text, targetLang)
	if cached, ok := t.cache.Get(ctx, key); ok {
		return cached, nil
	}

	var out completionsResp
	resp, err := t.http.R().
		SetContext(ctx).
		SetBody(completionsReq{
			Model: t.cfg.Model,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: "Translate this text to " + targetLang + ": " + text},
			},
			Temperature: 0.3,
		}).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return "", errs.WrapMsg(err, "call translation backend")
	}
	if resp.IsError() {
		return "", errs.New("translation backend error", "status", resp.StatusCode())
	}
	if len(out.Choices) == 0 {
		return "", errs.New("translation backend returned no choices")
	}

	translated := firstLine(strings.TrimSpace(out.Choices[0].Message.Content))
	if translated == "" {
		return "", errs.New("translation backend returned empty text")
	}

	t.cache.Set(ctx, key, translated)
	return translated, nil
}

// firstLine strips any extra explanation the model tacks on below the
// translation.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func cacheKey(text, targetLang string) string {
	sum := sha256.Sum256([]byte(targetLang + "|" + text))
	return "translate:" + hex.EncodeToString(sum[:])
}

// redisCache is the production Cache: the shared Redis client when it is up,
// a pass-through otherwise.
type redisCache struct{}

func (redisCache) Get(ctx context.Context, key string) (string, bool) {
	if !storageredis.Available() {
		return "", false
	}
	v, err := storageredis.GetRedis().Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return v, true
}

func (redisCache) Set(ctx context.Context, key, value string) {
	if !storageredis.Available() {
		return
	}
	if err := storageredis.GetRedis().Set(ctx, key, value, cacheTTL).Err(); err != nil {
		logger.Warnf("[translate] cache set failed: %v", err)
	}
}
