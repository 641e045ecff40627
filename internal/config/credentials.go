package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/noahxzhu/daily-post/internal/twitter"
)

var ErrMissingCredential = errors.New("missing credential")

// Keys of the credentials file, as issued by the developer portal.
const (
	keyAccessToken       = "access token"
	keyAccessTokenSecret = "access token secret"
	keyAPIKey            = "api key"
	keyAPISecretKey      = "api secret key"
)

// LoadCredentials reads the JSON credentials file once at startup.
func LoadCredentials(path string) (twitter.Credentials, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return twitter.Credentials{}, fmt.Errorf("failed to read credentials %s: %w", path, err)
	}

	get := func(key string) (string, error) {
		s := v.GetString(key)
		if s == "" {
			return "", fmt.Errorf("%w %q in %s", ErrMissingCredential, key, path)
		}
		return s, nil
	}

	var (
		creds twitter.Credentials
		err   error
	)
	if creds.AccessToken, err = get(keyAccessToken); err != nil {
		return twitter.Credentials{}, err
	}
	if creds.AccessTokenSecret, err = get(keyAccessTokenSecret); err != nil {
		return twitter.Credentials{}, err
	}
	if creds.APIKey, err = get(keyAPIKey); err != nil {
		return twitter.Credentials{}, err
	}
	if creds.APISecretKey, err = get(keyAPISecretKey); err != nil {
		return twitter.Credentials{}, err
	}
	return creds, nil
}
