// Package remote runs scenario database queries against a server hosting the database
// behind the BaseX REST API.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hermannm.dev/gcamquery/db"
	"hermannm.dev/gcamquery/query"
	"hermannm.dev/gcamquery/table"
	"hermannm.dev/wrap"
)

var _ db.ScenarioDB = RemoteDB{}

// Implements db.ScenarioDB for server-hosted databases.
type RemoteDB struct {
	config Config
	client *http.Client
}

type Config struct {
	// Server host name or address.
	Address string

	Port int

	// Name of the database on the server.
	DBFile string

	// Credentials configured on the server, sent as HTTP basic auth.
	Username string
	Password string

	// Maximum duration of a single query round-trip. Zero means no timeout.
	QueryTimeout time.Duration

	// Check at construction time that the database is reachable and has scenarios,
	// failing with a db.DatabaseValidationError otherwise.
	Validate bool
}

func Connect(ctx context.Context, conf Config) (RemoteDB, error) {
	remoteDB := RemoteDB{
		config: conf,
		client: &http.Client{Timeout: conf.QueryTimeout},
	}

	if conf.Validate {
		if err := db.ValidateConnection(ctx, remoteDB, remoteDB.url()); err != nil {
			return RemoteDB{}, err
		}
	}

	return remoteDB, nil
}

func (remoteDB RemoteDB) RunQuery(
	ctx context.Context,
	def query.Definition,
	opts db.QueryOptions,
) (*table.Table, error) {
	invocation := query.BuildInvocation(def, opts.Filters())

	body, err := remoteDB.post(ctx, query.RESTEnvelope(invocation.Script, true))
	if err != nil {
		return nil, err
	}

	return table.Normalize(body, table.NormalizeOptions{
		WarnOnEmpty: opts.WarnOnEmpty,
		QueryTitle:  def.Title,
	})
}

func (remoteDB RemoteDB) ListScenarios(ctx context.Context) (*table.Table, error) {
	body, err := remoteDB.post(ctx, query.RESTEnvelope(query.ScenarioListScript, false))
	if err != nil {
		return nil, err
	}

	scenarios, err := table.Normalize(body, table.NormalizeOptions{
		QueryTitle: "List Scenarios",
	})
	if err != nil {
		return nil, err
	}

	if err := db.AppendFullyQualifiedNames(scenarios); err != nil {
		return nil, wrap.Error(err, "failed to post-process scenario listing")
	}
	return scenarios, nil
}

// post sends an enveloped query to the server's REST endpoint and returns the response
// body. Non-2xx responses become a db.RemoteQueryError carrying status and body.
func (remoteDB RemoteDB) post(ctx context.Context, envelope string) (string, error) {
	url := remoteDB.url()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(envelope))
	if err != nil {
		return "", wrap.Error(err, "failed to create query request")
	}
	request.SetBasicAuth(remoteDB.config.Username, remoteDB.config.Password)
	request.Header.Set("Content-Type", "application/xml")

	response, err := remoteDB.client.Do(request)
	if err != nil {
		return "", wrap.Errorf(err, "query request to %s failed", url)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", wrap.Error(err, "failed to read query response body")
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return "", db.RemoteQueryError{
			URL:        url,
			StatusCode: response.StatusCode,
			Status:     response.Status,
			Body:       string(body),
		}
	}

	return string(body), nil
}

func (remoteDB RemoteDB) url() string {
	return fmt.Sprintf(
		"http://%s:%d/rest/%s",
		remoteDB.config.Address,
		remoteDB.config.Port,
		remoteDB.config.DBFile,
	)
}
