package utils

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/go-resty/resty/v2"
)

type FlussonicConfig struct {
	URL      string
	User     string
	Password string
	VODName  string
}

// FlussonicClient stores uploaded videos in a Flussonic VOD location
type FlussonicClient struct {
	cfg    FlussonicConfig
	client *resty.Client
}

func NewFlussonicClient(cfg FlussonicConfig) *FlussonicClient {
	return &FlussonicClient{
		cfg:    cfg,
		client: resty.New().SetBasicAuth(cfg.User, cfg.Password),
	}
}

// Configured reports whether every connection setting is present
func (fc *FlussonicClient) Configured() bool {
	return fc.cfg.URL != "" && fc.cfg.User != "" && fc.cfg.Password != "" && fc.cfg.VODName != ""
}

// Put uploads body as name and returns the HLS playback URL
func (fc *FlussonicClient) Put(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	uploadURL := fmt.Sprintf("%s/streamer/api/v3/vods/%s/storages/0/files/%s", fc.cfg.URL, fc.cfg.VODName, name)
	log.Printf("[UPLOAD] Uploading to Flussonic: %s", uploadURL)

	resp, err := fc.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(body).
		Put(uploadURL)
	if err != nil {
		return "", err
	}
	if !resp.IsSuccess() {
		log.Printf("[UPLOAD] Flussonic upload failed: %d %s", resp.StatusCode(), resp.String())
		return "", fmt.Errorf("flussonic answered %d", resp.StatusCode())
	}

	return fmt.Sprintf("%s/%s/%s/index.m3u8", fc.cfg.URL, fc.cfg.VODName, name), nil
}

// ConfigureCORS allows the given origins to play videos of the VOD location
func (fc *FlussonicClient) ConfigureCORS(ctx context.Context, origins []string) error {
	if !fc.Configured() || len(origins) == 0 {
		return nil
	}

	resp, err := fc.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"cors": map[string]interface{}{
				"enabled": true,
				"domains": origins,
			},
		}).
		Put(fmt.Sprintf("%s/streamer/api/v3/vods/%s", fc.cfg.URL, fc.cfg.VODName))
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("flussonic answered %d: %s", resp.StatusCode(), resp.String())
	}
	log.Printf("[UPLOAD] Flussonic CORS set for %v", origins)
	return nil
}
