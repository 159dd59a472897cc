package echoapi_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
	"github.com/xuri/excelize/v2"

	"github.com/academia/tuition/core/schoolyear"
	"github.com/academia/tuition/core/tuition"
	"github.com/academia/tuition/services/email"
	"github.com/academia/tuition/tests"
)

func Test_tuitionApi_defaults(t *testing.T) {
	app := setup(t)
	want := schoolyear.Settings{Scale: tuition.DefaultScale, Factors: tuition.DefaultFactors, MaxChange: tuition.DefaultMaxChange}

	runHTTPTests(t, app, []httpTest{
		{name: "defaults", path: "/v1/tuition/defaults", wantCode: http.StatusOK, wantData: marchallObj(t, want)},
	})
}

func Test_tuitionApi_options(t *testing.T) {
	app := setup(t)
	path := "/v1/tuition/options"

	runHTTPTests(t, app, []httpTest{
		{
			name: "mixed", method: http.MethodPost, path: path,
			body:     []byte(`{"decisions":{"a":"full_time","b":"full_time","c":"part_time","d":"not_attending"}}`),
			wantCode: http.StatusOK, wantData: []byte(`{"full_time":1,"part_time":1,"siblings":1}`),
		},
		{
			name: "nobody attending", method: http.MethodPost, path: path,
			body:     []byte(`{"decisions":{"a":"not_attending"}}`),
			wantCode: http.StatusOK, wantData: []byte(`{"full_time":0,"part_time":0,"siblings":0}`),
		},
		{
			name: "empty", method: http.MethodPost, path: path, body: []byte(`{}`),
			wantCode: http.StatusOK, wantData: []byte(`{"full_time":0,"part_time":0,"siblings":0}`),
		},
		{
			name: "unknown decision", method: http.MethodPost, path: path,
			body: []byte(`{"decisions":{"a":"sometimes"}}`), wantCode: http.StatusBadRequest,
		},
	})
}

func Test_tuitionApi_quote(t *testing.T) {
	app := setup(t)
	path := "/v1/tuition/quote"
	testutil.CreateSchoolYear(t, app.repo, "2024-2025", tuition.Scale{MaxTuition: 15000}, null.Float64From(.05))

	opts := tuition.Options{FullTime: 1, Year: tuition.DefaultScale, Factors: tuition.DefaultFactors}
	base := tuition.ForIncome(null.Float64From(74000), opts)
	quote := schoolyear.Quote{
		Options:   tuition.Options{FullTime: 1},
		Base:      base,
		Suggested: base,
		Minimum:   base,
		Final:     6104,
		Formatted: "$6,104",
	}
	optedOut := schoolyear.Quote{
		Year:      "2024-2025",
		Options:   tuition.Options{FullTime: 1},
		Base:      15000,
		Suggested: 15000,
		Minimum:   15000,
		Final:     15000,
		Formatted: "$15,000",
	}
	clamped := optedOut
	clamped.Final = 10500
	clamped.Clamped = true
	clamped.Formatted = "$10,500"

	tests := []httpTest{
		{
			name: "one full-time student", method: http.MethodPost, path: path,
			body:     []byte(`{"income":74000,"decisions":{"s1":"full_time"}}`),
			wantCode: http.StatusOK, wantData: marchallObj(t, quote),
		},
		{
			name: "no composition", method: http.MethodPost, path: path, body: []byte(`{"income":74000}`),
			wantCode: http.StatusOK, wantData: marchallObj(t, quote),
		},
		{
			name: "opted out of a school year", method: http.MethodPost, path: path,
			body:     []byte(`{"year":"2024-2025","income":74000,"opted_out":true,"decisions":{"s1":"full_time"}}`),
			wantCode: http.StatusOK, wantData: marchallObj(t, optedOut),
		},
		{
			name: "null income", method: http.MethodPost, path: path,
			body:     []byte(`{"year":"2024-2025","income":null,"decisions":{"s1":"full_time"}}`),
			wantCode: http.StatusOK, wantData: marchallObj(t, optedOut),
		},
		{
			name: "clamped by prior tuition", method: http.MethodPost, path: path,
			body: []byte(`{"year":"2024-2025","opted_out":true,"decisions":{"s1":"full_time"},` +
				`"prior":{"tuition":10000,"decisions":{"s1":"full_time"}}}`),
			wantCode: http.StatusOK, wantData: marchallObj(t, clamped),
		},
		{
			name: "nobody attending", method: http.MethodPost, path: path,
			body:     []byte(`{"income":74000,"decisions":{"s1":"not_attending"}}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, schoolyear.Quote{Formatted: "$0"}),
		},
		{
			name: "override too low", method: http.MethodPost, path: path,
			body:     []byte(`{"income":74000,"decisions":{"s1":"full_time"},"override":100}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"override":"must be at least $6,104"}`),
		},
		{
			name: "negative income", method: http.MethodPost, path: path, body: []byte(`{"income":-1}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"income":"must be greater than or equal to 0"}`),
		},
		{
			name: "bad year", method: http.MethodPost, path: path, body: []byte(`{"year":"2024"}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"year":"must be two consecutive years, eg. 2024-2025"}`),
		},
		{
			name: "unknown year", method: http.MethodPost, path: path, body: []byte(`{"year":"1999-2000"}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"year":"school year not found"}`),
		},
		{
			name: "malformed body", method: http.MethodPost, path: path, body: []byte(`{"income":`),
			wantCode: http.StatusBadRequest,
		},
	}
	runHTTPTests(t, app, tests)
}

func Test_tuitionApi_emailQuote(t *testing.T) {
	app := setup(t)
	path := "/v1/tuition/quote/email"

	tests := []httpTest{
		{
			name: "missing recipient", method: http.MethodPost, path: path, body: []byte(`{"quote":{"income":74000}}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"name":"this field is required","email":"this field is required"}`),
		},
		{
			name: "bad quote", method: http.MethodPost, path: path,
			body:     []byte(`{"name":"Jane","email":"jane@test.cd","quote":{"income":-5}}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"quote.income":"must be greater than or equal to 0"}`),
		},
	}
	runHTTPTests(t, app, tests)
	assert.Empty(t, emailsvc.SentMessages)

	req, rec := newRequest(http.MethodPost, path, []byte(`{"name":"Jane Doe","email":"JANE@test.cd","quote":{"income":74000}}`))
	app.srv.ServeHTTP(rec, req)
	if assert.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String()) && assert.Len(t, emailsvc.SentMessages, 1) {
		msg := emailsvc.SentMessages[0]
		assert.Equal(t, "jane@test.cd", msg.To[0].Address)
		assert.Contains(t, msg.TextContent, "$6,104")
	}
}

func Test_tuitionApi_table(t *testing.T) {
	app := setup(t)
	testutil.CreateSchoolYear(t, app.repo, "2024-2025", tuition.Scale{MaxTuition: 15000}, null.Float64{})

	table := func(year string, opts tuition.Options, step float64) []byte {
		tbl, err := app.svc.Table(context.Background(), year, opts, step)
		if err != nil {
			t.Fatalf("Table() failed: %v", err)
		}
		return marchallObj(t, tbl)
	}

	tests := []httpTest{
		{name: "defaults", path: "/v1/tuition/table", wantCode: http.StatusOK, wantData: table("", tuition.Options{}, 0)},
		{
			name: "school year", path: "/v1/tuition/table?year=2024-2025&step=10000&full_time=1&siblings=1",
			wantCode: http.StatusOK, wantData: table("2024-2025", tuition.Options{FullTime: 1, Siblings: 1}, 10000),
		},
		{name: "unknown year", path: "/v1/tuition/table?year=1999-2000", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
		{name: "bad format", path: "/v1/tuition/table?format=pdf", wantCode: http.StatusBadRequest},
		{name: "negative step", path: "/v1/tuition/table?step=-1", wantCode: http.StatusBadRequest},
		{name: "negative count", path: "/v1/tuition/table?part_time=-2", wantCode: http.StatusBadRequest},
	}
	runHTTPTests(t, app, tests)
}

func Test_tuitionApi_tableXLSX(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/v1/tuition/table?format=xlsx&step=46000")
	app.srv.ServeHTTP(rec, req)
	if !assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String()) {
		return
	}
	assert.Equal(t, `attachment; filename="tuition.xlsx"`, rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if !assert.NoError(t, err) {
		return
	}
	defer f.Close()

	rows, err := f.GetRows("Tuition")
	if assert.NoError(t, err) {
		assert.Len(t, rows, 4) // header, 28000, 74000 & 120000
	}
}
