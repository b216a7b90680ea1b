package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Googleが公開するsecuretoken署名用x509証明書のダウンロードURL。
const defaultFirebaseCertURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

// FirebaseVerifierConfig はFirebase IDトークン検証の設定。
type FirebaseVerifierConfig struct {
	ProjectID string

	// テスト用にオーバーライド可能な証明書URL
	CertURL string
	// 証明書の再取得間隔
	RefreshInterval time.Duration
}

// FirebaseVerifier はFirebase AuthのIDトークン（RS256署名のJWT）を検証する。
// Googleの公開証明書をkidで引き、署名・発行者・オーディエンス・有効期限を検証する。
type FirebaseVerifier struct {
	config FirebaseVerifierConfig
	client *http.Client

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// NewFirebaseVerifier はFirebaseVerifierを生成する。
func NewFirebaseVerifier(config FirebaseVerifierConfig) *FirebaseVerifier {
	if config.CertURL == "" {
		config.CertURL = defaultFirebaseCertURL
	}
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = 6 * time.Hour
	}
	return &FirebaseVerifier{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
		keys:   map[string]*rsa.PublicKey{},
	}
}

// firebaseClaims はFirebase IDトークンのクレーム。
type firebaseClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verify はIDトークンを検証し、識別情報を返す。
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*VerifiedIdentity, error) {
	claims := &firebaseClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		kid, ok := t.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, fmt.Errorf("token has no kid header")
		}
		return v.keyForKid(ctx, kid)
	}, jwt.WithValidMethods([]string{"RS256"}))
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	issuer := "https://securetoken.google.com/" + v.config.ProjectID
	if claims.Issuer != issuer {
		return nil, fmt.Errorf("unexpected issuer: %s", claims.Issuer)
	}
	if !containsAudience(claims.Audience, v.config.ProjectID) {
		return nil, fmt.Errorf("unexpected audience")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("empty subject in token")
	}

	return &VerifiedIdentity{
		SubjectID: claims.Subject,
		Email:     claims.Email,
	}, nil
}

// keyForKid はkidに対応する公開鍵を返す。
// 手元の証明書が古い、またはkidが未知の場合は再取得してから引き直す。
func (v *FirebaseVerifier) keyForKid(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	key, ok := v.keys[kid]
	fresh := time.Since(v.fetchedAt) < v.config.RefreshInterval
	v.mu.RUnlock()

	if ok && fresh {
		return key, nil
	}

	if err := v.refreshKeys(ctx); err != nil {
		// 再取得に失敗しても手元に鍵があればそれで検証を試みる
		if ok {
			return key, nil
		}
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	key, ok = v.keys[kid]
	if !ok {
		return nil, fmt.Errorf("no certificate for kid %q", kid)
	}
	return key, nil
}

// refreshKeys はGoogleの証明書エンドポイントから公開鍵を再取得する。
func (v *FirebaseVerifier) refreshKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.config.CertURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create certificate request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("certificate fetch failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read certificate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("certificate fetch failed with status %d", resp.StatusCode)
	}

	var certs map[string]string
	if err := json.Unmarshal(body, &certs); err != nil {
		return fmt.Errorf("failed to parse certificate response: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, pemCert := range certs {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemCert))
		if err != nil {
			return fmt.Errorf("failed to parse certificate for kid %q: %w", kid, err)
		}
		keys[kid] = key
	}

	v.mu.Lock()
	v.keys = keys
	v.fetchedAt = time.Now()
	v.mu.Unlock()

	return nil
}

func containsAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}

// compile-time interface check
var _ TokenVerifier = (*FirebaseVerifier)(nil)
