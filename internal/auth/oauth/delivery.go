package oauth

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/openpaws/openpaws/internal/platforms"
)

// deliveryPage posts the outcome to the window that opened the popup and
// closes itself. Without an opener it falls back to a redirect.
var deliveryPage = template.Must(template.New("delivery").Parse(`<!DOCTYPE html>
<html>
<head><title>Connecting {{.Platform}}...</title></head>
<body>
<script>
(function () {
  var result = {{.Result}};
  var appURL = {{.AppURL}};
  if (window.opener) {
    window.opener.postMessage({
      type: 'oauth_callback',
      platform: result.platform,
      account: result.account,
      error: result.error
    }, {{.Origin}});
    window.close();
  } else {
    var target = appURL + '/accounts?connected=' + encodeURIComponent(result.platform);
    if (result.error) {
      target += '&error=' + encodeURIComponent(result.error);
    }
    window.location.href = target;
  }
})();
</script>
<p>Connecting your {{.Platform}} account... This window should close automatically.</p>
</body>
</html>
`))

type deliveryResult struct {
	Platform platforms.Platform `json:"platform"`
	Account  *ConnectedAccount  `json:"account"`
	Error    *string            `json:"error"`
}

type deliveryData struct {
	Platform string
	AppURL   string
	Origin   string
	Result   deliveryResult
}

// deliver writes the callback page. It always answers 200; the outcome is
// carried inside the page.
func deliver(w http.ResponseWriter, appURL string, p platforms.Platform, acct *ConnectedAccount, errMsg string) {
	data := deliveryData{
		Platform: string(p),
		AppURL:   appURL,
		Origin:   origin(appURL),
		Result:   deliveryResult{Platform: p, Account: acct},
	}
	if errMsg != "" {
		data.Result.Error = &errMsg
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if err := deliveryPage.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("Failed to render callback page")
	}
}

// origin reduces appURL to scheme://host for postMessage targeting.
func origin(appURL string) string {
	u, err := url.Parse(appURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return appURL
	}
	return u.Scheme + "://" + u.Host
}
