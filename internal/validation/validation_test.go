package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func validRegister() RegisterArtist {
	return RegisterArtist{
		Name:     "Ada",
		Surname:  "Lovelace",
		Email:    "ada@example.com",
		Password: "secret1",
		Address:  "12 Analytical Lane",
	}
}

func TestRegisterArtistBounds(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RegisterArtist)
		field   string
		wantErr bool
	}{
		{"valid", func(r *RegisterArtist) {}, "", false},
		{"name too short", func(r *RegisterArtist) { r.Name = "A" }, "name", true},
		{"name too long", func(r *RegisterArtist) { r.Name = strings.Repeat("a", 51) }, "name", true},
		{"name at max", func(r *RegisterArtist) { r.Name = strings.Repeat("a", 50) }, "", false},
		{"surname required", func(r *RegisterArtist) { r.Surname = "" }, "surname", true},
		{"bad email", func(r *RegisterArtist) { r.Email = "not-an-email" }, "email", true},
		{"password too short", func(r *RegisterArtist) { r.Password = "12345" }, "password", true},
		{"password at min", func(r *RegisterArtist) { r.Password = "123456" }, "", false},
		{"password too long", func(r *RegisterArtist) { r.Password = strings.Repeat("x", 129) }, "password", true},
		{"address too short", func(r *RegisterArtist) { r.Address = "1234" }, "address", true},
		{"address too long", func(r *RegisterArtist) { r.Address = strings.Repeat("a", 201) }, "address", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRegister()
			tt.mutate(&input)
			details := Validate(&input)
			if !tt.wantErr {
				require.Nil(t, details)
				return
			}
			require.Len(t, details, 1)
			require.Equal(t, tt.field, details[0].Field)
			require.NotEmpty(t, details[0].Message)
		})
	}
}

func TestRegisterArtistNormalize(t *testing.T) {
	input := RegisterArtist{
		Name:     "  Ada  ",
		Surname:  " Lovelace ",
		Email:    "  ADA@Example.COM ",
		Password: "secret1",
		Address:  " 12 Analytical Lane ",
	}
	input.Normalize()

	require.Equal(t, "Ada", input.Name)
	require.Equal(t, "Lovelace", input.Surname)
	require.Equal(t, "ada@example.com", input.Email)
	require.Equal(t, "12 Analytical Lane", input.Address)
	require.Nil(t, Validate(&input))
}

func TestArtworkInputBounds(t *testing.T) {
	copies := func(n int) *int { return &n }

	valid := func() ArtworkInput {
		return ArtworkInput{
			Title:           "Sunset over Banjul",
			Description:     "Oil on canvas, painted during the rains.",
			CopiesAvailable: copies(3),
		}
	}

	t.Run("valid", func(t *testing.T) {
		input := valid()
		require.Nil(t, Validate(&input))
	})

	t.Run("zero copies is allowed", func(t *testing.T) {
		input := valid()
		input.CopiesAvailable = copies(0)
		require.Nil(t, Validate(&input))
	})

	t.Run("missing copies is rejected", func(t *testing.T) {
		input := valid()
		input.CopiesAvailable = nil
		details := Validate(&input)
		require.Len(t, details, 1)
		require.Equal(t, "copiesAvailable", details[0].Field)
	})

	t.Run("too many copies", func(t *testing.T) {
		input := valid()
		input.CopiesAvailable = copies(1001)
		details := Validate(&input)
		require.Len(t, details, 1)
		require.Equal(t, "copiesAvailable", details[0].Field)
	})

	t.Run("negative copies", func(t *testing.T) {
		input := valid()
		input.CopiesAvailable = copies(-1)
		require.NotNil(t, Validate(&input))
	})

	t.Run("title bounds", func(t *testing.T) {
		input := valid()
		input.Title = "ab"
		require.NotNil(t, Validate(&input))
		input.Title = strings.Repeat("t", 101)
		require.NotNil(t, Validate(&input))
	})

	t.Run("description bounds", func(t *testing.T) {
		input := valid()
		input.Description = "too short"
		require.NotNil(t, Validate(&input))
		input.Description = strings.Repeat("d", 501)
		require.NotNil(t, Validate(&input))
	})

	t.Run("ten tags pass, eleven fail", func(t *testing.T) {
		input := valid()
		for i := 0; i < 10; i++ {
			input.Tags = append(input.Tags, "tag")
		}
		require.Nil(t, Validate(&input))
		input.Tags = append(input.Tags, "one-too-many")
		details := Validate(&input)
		require.Len(t, details, 1)
		require.Equal(t, "tags", details[0].Field)
	})

	t.Run("tag length", func(t *testing.T) {
		input := valid()
		input.Tags = []string{strings.Repeat("x", 21)}
		require.NotNil(t, Validate(&input))
		input.Tags = []string{strings.Repeat("x", 20)}
		require.Nil(t, Validate(&input))
	})
}

func TestSearchQueryBounds(t *testing.T) {
	intp := func(n int) *int { return &n }

	t.Run("empty query is valid", func(t *testing.T) {
		require.Nil(t, Validate(&SearchQuery{}))
	})

	t.Run("sort values", func(t *testing.T) {
		for _, sort := range []string{"newest", "oldest", "popular", "title"} {
			require.Nil(t, Validate(&SearchQuery{Sort: sort}), sort)
		}
		details := Validate(&SearchQuery{Sort: "sideways"})
		require.Len(t, details, 1)
		require.Equal(t, "sort", details[0].Field)
	})

	t.Run("page bounds", func(t *testing.T) {
		require.Nil(t, Validate(&SearchQuery{Page: intp(1)}))
		require.Nil(t, Validate(&SearchQuery{Page: intp(100)}))
		require.NotNil(t, Validate(&SearchQuery{Page: intp(0)}))
		require.NotNil(t, Validate(&SearchQuery{Page: intp(101)}))
	})

	t.Run("limit bounds", func(t *testing.T) {
		require.Nil(t, Validate(&SearchQuery{Limit: intp(50)}))
		require.NotNil(t, Validate(&SearchQuery{Limit: intp(0)}))
		require.NotNil(t, Validate(&SearchQuery{Limit: intp(51)}))
	})
}

func TestLoginArtist(t *testing.T) {
	input := LoginArtist{Email: "ADA@example.com ", Password: "whatever"}
	input.Normalize()
	require.Equal(t, "ada@example.com", input.Email)
	require.Nil(t, Validate(&input))

	details := Validate(&LoginArtist{Email: "ada@example.com"})
	require.Len(t, details, 1)
	require.Equal(t, "password", details[0].Field)
	require.Equal(t, "Password is required", details[0].Message)
}
