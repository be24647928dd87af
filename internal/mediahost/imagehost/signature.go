// Package imagehost talks to a Cloudinary-compatible image CDN. The server
// side issues upload signatures, the client side performs the signed
// multipart upload and parses the hosted asset metadata from the response.
package imagehost

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// SignParams computes the upload signature over the given parameters.
// Parameters are sorted by key, joined as "k=v" pairs with "&", the API
// secret is appended, and the result is hashed with SHA-1 and hex-encoded.
// Empty values are skipped.
func SignParams(params map[string]string, apiSecret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, params[k]))
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + apiSecret))
	return hex.EncodeToString(sum[:])
}

// SignUpload signs the minimal parameter set for a preset upload at the
// given unix timestamp.
func SignUpload(timestamp int64, uploadPreset, apiSecret string) string {
	return SignParams(map[string]string{
		"timestamp":     fmt.Sprintf("%d", timestamp),
		"upload_preset": uploadPreset,
	}, apiSecret)
}
