package handlers

import (
	"errors"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/useradmin/pkg/users"
)

func TestParsePage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(strconv.Itoa(parsePage(c)))
	})

	cases := map[string]int{
		"":                               1,
		"?page=3":                        3,
		"?page=0":                        1,
		"?page=-4":                       1,
		"?page=abc":                      1,
		"?page=2147483648":               users.MaxPage,
		"?page=922337203685477580":       users.MaxPage,
		"?page=99999999999999999999999":  users.MaxPage,
		"?page=-99999999999999999999999": 1,
	}
	for query, want := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", "/"+query, nil))
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(want), string(body), query)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("tcp reset by peer") }

func TestReadAtMost(t *testing.T) {
	b, err := readAtMost(strings.NewReader("12345"), 5)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(b))

	_, err = readAtMost(strings.NewReader("123456"), 5)
	assert.ErrorIs(t, err, errFileTooLarge)

	_, err = readAtMost(failingReader{}, 5)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errFileTooLarge)
}
