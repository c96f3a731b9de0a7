package instagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const aliceHTML = `<html><head>
<title>Alice A (@alice) &#x2022; Instagram photos and videos</title>
<meta property="og:title" content="Alice A (@alice) • Instagram photos and videos">
<meta content="https://cdn.example/alice.jpg" property="og:image">
<script type="application/ld+json">{"@type":"ProfilePage","alternateName":"@alice"}</script>
<a href="instagram://user?username=alice">open in app</a>
</head><body></body></html>`

func TestMetaContent(t *testing.T) {
	// og:title uses property-then-content, og:image content-then-property;
	// both orderings must resolve.
	assert.Equal(t, "Alice A (@alice) • Instagram photos and videos", MetaContent(aliceHTML, "og:title"))
	assert.Equal(t, "https://cdn.example/alice.jpg", MetaContent(aliceHTML, "og:image"))
	assert.Equal(t, "", MetaContent(aliceHTML, "og:description"))

	named := `<meta name="description" content="A page.">`
	assert.Equal(t, "A page.", MetaContent(named, "description"))
}

func TestDisplayNameFromTitle(t *testing.T) {
	assert.Equal(t, "Alice A", DisplayNameFromTitle("Alice A (@alice) • Instagram photos and videos"))
	assert.Equal(t, "", DisplayNameFromTitle("(@alice) • Instagram photos and videos"))
	assert.Equal(t, "", DisplayNameFromTitle("Instagram"))
	assert.Equal(t, "", DisplayNameFromTitle(""))
}

func TestAlternateHandle(t *testing.T) {
	assert.Equal(t, "alice", AlternateHandle(aliceHTML))
	assert.Equal(t, "bob_1", AlternateHandle(`{"alternateName": "@bob_1"}`))
	assert.Equal(t, "", AlternateHandle(`<html><body>nothing here</body></html>`))
}

func TestLooksBlocked(t *testing.T) {
	cases := []struct {
		name string
		html string
		want bool
	}{
		{"challenge path", `<form action="/challenge/?next=%2F">`, true},
		{"login path", `<a href="/accounts/login/?next=%2Falice%2F">`, true},
		{"login wall wording", `<html>Log in to Instagram. Password: <input></html>`, true},
		{"profile page", aliceHTML, false},
		{"login word alone", `<html>login form for some other site</html>`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LooksBlocked(tc.html))
		})
	}
}

func TestMatchesUsername(t *testing.T) {
	assert.True(t, MatchesUsername(aliceHTML, "alice"))
	assert.True(t, MatchesUsername(aliceHTML, "ALICE"))
	assert.False(t, MatchesUsername(aliceHTML, "alice2"))

	// Any single signal suffices.
	altOnly := `<script>{"alternateName":"@carol.b"}</script>`
	assert.True(t, MatchesUsername(altOnly, "carol.b"))

	deepLinkOnly := `<a href="instagram://user?username=dave_99">app</a>`
	assert.True(t, MatchesUsername(deepLinkOnly, "Dave_99"))

	titleOnly := `<meta property="og:title" content="Eve (@eve) • Instagram">`
	assert.True(t, MatchesUsername(titleOnly, "eve"))
}
