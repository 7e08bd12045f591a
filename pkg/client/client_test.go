package client

import (
	"context"
	"errors"
	"net/url"
	"testing"

	test "github.com/diwise/service-chassis/pkg/test/http"
	"github.com/diwise/service-chassis/pkg/test/http/expects"
	"github.com/diwise/service-chassis/pkg/test/http/response"
	"github.com/matryer/is"
)

func TestQueryAlerts(t *testing.T) {
	is := is.New(t)

	mockedService := test.NewMockServiceThat(
		test.Expects(is,
			expects.RequestPath("/api/v0/alerts"),
			expects.RequestMethod("GET"),
			expects.RequestHeaderContains("Authorization", "Bearer testtoken"),
		),
		test.Returns(
			response.ContentType("application/json"),
			response.Code(200),
			response.Body([]byte(`{"meta":{"totalRecords":1,"count":1},"data":[{"id":"a-1","site":"example-site","platform":"web","metric":"visits","severity":"critical"}]}`)),
		),
	)
	defer mockedService.Close()

	c := New(mockedService.URL(), "testtoken")

	alerts, err := c.QueryAlerts(context.Background(), url.Values{"severity": []string{"critical"}})
	is.NoErr(err)
	is.Equal(len(alerts), 1)
	is.Equal(alerts[0].ID, "a-1")
	is.Equal(alerts[0].Site, "example-site")
}

func TestGetAlertNotFound(t *testing.T) {
	is := is.New(t)

	mockedService := test.NewMockServiceThat(
		test.Expects(is,
			expects.RequestPath("/api/v0/alerts/missing"),
		),
		test.Returns(
			response.Code(404),
		),
	)
	defer mockedService.Close()

	c := New(mockedService.URL(), "")

	_, err := c.GetAlert(context.Background(), "missing")
	is.True(errors.Is(err, ErrNotFound))
}

func TestAcknowledgeAlert(t *testing.T) {
	is := is.New(t)

	mockedService := test.NewMockServiceThat(
		test.Expects(is,
			expects.RequestPath("/api/v0/alerts/a-1/acknowledge"),
			expects.RequestMethod("POST"),
			expects.RequestHeaderContains("Content-Type", "application/json"),
			expects.RequestBodyContaining(`"acknowledgedBy":"ops@example.com"`),
		),
		test.Returns(
			response.Code(204),
		),
	)
	defer mockedService.Close()

	c := New(mockedService.URL(), "")

	err := c.AcknowledgeAlert(context.Background(), "a-1", "ops@example.com")
	is.NoErr(err)
}
