/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package iothub

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

// sasPolicy signs every attempt with a fresh shared access signature so
// retries never carry an expired token.
type sasPolicy struct {
	cs  *ConnectionString
	ttl time.Duration
	now func() time.Time
}

func newSASPolicy(cs *ConnectionString, ttl time.Duration) *sasPolicy {
	return &sasPolicy{cs: cs, ttl: ttl, now: time.Now}
}

func (p *sasPolicy) Do(req *policy.Request) (*http.Response, error) {
	req.Raw().Header.Set("Authorization", p.token(p.now().Add(p.ttl)))

	return req.Next()
}

// token builds "SharedAccessSignature sr=..&sig=..&se=..&skn=..". The signed
// string is the encoded resource URI and the expiry separated by a newline.
func (p *sasPolicy) token(expiry time.Time) string {
	resource := url.QueryEscape(strings.ToLower(p.cs.HostName))
	se := strconv.FormatInt(expiry.Unix(), 10)

	mac := hmac.New(sha256.New, p.cs.SharedAccessKey)
	mac.Write([]byte(resource + "\n" + se))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("SharedAccessSignature sr=%s&sig=%s&se=%s&skn=%s",
		resource, url.QueryEscape(sig), se, url.QueryEscape(p.cs.SharedAccessKeyName))
}
