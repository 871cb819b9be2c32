package translation

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleClient translates through the Google Cloud Translation API.
type GoogleClient struct {
	client *translate.Client
}

// NewGoogleClient connects with apiKey, or with application default
// credentials when apiKey is empty.
func NewGoogleClient(ctx context.Context, apiKey string) (*GoogleClient, error) {
	var opts []option.ClientOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create translate client: %w", err)
	}
	return &GoogleClient{client: client}, nil
}

func (gc *GoogleClient) Translate(ctx context.Context, text, source, target string) (string, error) {
	tgt, err := language.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parse target language %q: %w", target, err)
	}
	src, err := sourceTag(source)
	if err != nil {
		return "", err
	}

	opts := &translate.Options{Format: translate.Text}
	if src != language.Und {
		opts.Source = src
	}
	res, err := gc.client.Translate(ctx, []string{text}, tgt, opts)
	if err != nil {
		return "", fmt.Errorf("google translate: %w", err)
	}
	if len(res) == 0 {
		return "", errors.New("google translate: no translations returned")
	}
	return res[0].Text, nil
}

func (gc *GoogleClient) Close() error {
	return gc.client.Close()
}
