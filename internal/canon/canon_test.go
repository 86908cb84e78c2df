package canon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProtocolAndWww(t *testing.T) {
	url := "https://www.beesyst.com/kakogo-brokera-vyibrat-dlya-torgovli-na-foreks/"
	require.Equal(t, "beesyst.com/kakogo-brokera-vyibrat-dlya-torgovli-na-foreks/", StripWww(StripProtocol(url)))

	require.Equal(t, "a.ru/x", StripProtocol("http://a.ru/x"))
	require.Equal(t, "HTTP://a.ru/x", StripProtocol("HTTP://a.ru/x"))
	require.Equal(t, "ftp://a.ru", StripProtocol("ftp://a.ru"))

	require.Equal(t, "http://a.ru", EnsureProtocol("a.ru"))
	require.Equal(t, "https://a.ru", EnsureProtocol("https://a.ru"))

	require.Equal(t, "www.ru", StripWww("www.ru"))
	require.Equal(t, "a.ru", StripWww("www.a.ru"))
	require.Equal(t, "a.www.ru", StripWww("a.www.ru"))
}

func TestTrailingSlashes(t *testing.T) {
	require.Equal(t, "a.ru/x", StripTrailingSlashes("a.ru/x///"))
	require.Equal(t, "a.ru/x", StripTrailingSlashes("a.ru/x"))
	require.Equal(t, "a.ru/x/", ExcludeTrailingSlash("a.ru/x//"))
}

func TestHost(t *testing.T) {
	require.Equal(t, "miralab.ru", Host("http://miralab.ru/mail.html", false))
	require.Equal(t, "www.miralab.ru", Host("http://www.miralab.ru/mail.html", false))
	require.Equal(t, "miralab.ru", Host("http://www.miralab.ru/mail.html", true))
	require.Equal(t, "президент.рф", Host("http://президент.рф/mail.html", true))
	require.Equal(t, "президент.рф", Host("президент.рф", false))
	require.Equal(t, "президент.рф", Host("президент.рф/fsdfasdfas.com", false))
}

func TestSplitURL(t *testing.T) {
	scheme, rest := SplitURL("https://a.ru/x")
	require.Equal(t, "https", scheme)
	require.Equal(t, "a.ru/x", rest)

	scheme, rest = SplitURL("a.ru")
	require.Equal(t, "http", scheme)
	require.Equal(t, "a.ru", rest)

	require.Equal(t, "http://a.ru", WithProtocol("a.ru"))
	require.Equal(t, "https://a.ru", WithProtocol("https://a.ru"))
	require.Equal(t, "", WithProtocol(""))
	require.Equal(t, "", WithProtocol("http://"))

	require.Equal(t, "youtube.com/embed/x", ClearVideoURL("//youtube.com/embed/x"))
	require.Equal(t, "youtube.com/embed/x", ClearVideoURL("https://youtube.com/embed/x"))
}

func TestEncodeDecode(t *testing.T) {
	raw := "http://appliances.wikimart.ru/builtin/cooker_hood/tag/кухонные-вытяжки/"
	encoded := "http://appliances.wikimart.ru/builtin/cooker_hood/tag/%D0%BA%D1%83%D1%85%D0%BE%D0%BD%D0%BD%D1%8B%D0%B5-%D0%B2%D1%8B%D1%82%D1%8F%D0%B6%D0%BA%D0%B8/"

	require.Equal(t, encoded, Encode(raw))
	require.Equal(t, Encode(encoded), Encode(raw))
	require.Equal(t, raw, Decode(encoded))
	require.Equal(t, Decode(raw), Decode(encoded))
}

func TestEncodeProperties(t *testing.T) {
	for _, u := range []string{
		"http://a.ru/путь/к файлу?q=значение#якорь",
		"a.ru/x y/z",
		"http://a.ru/",
		"http://a.ru",
		"http://a.ru/100%zz",
	} {
		require.Equal(t, Encode(u), Encode(Encode(u)), u)
		require.Equal(t, Decode(u), Decode(Encode(u)), u)
	}
}

func TestDecodeIsLenient(t *testing.T) {
	require.Equal(t, "100%", Decode("100%"))
	require.Equal(t, "%zz a", Decode("%zz%20a"))
	require.Equal(t, "a+b", Decode("a+b"))
	require.Equal(t, "a b", DecodeForm("a+b"))
	require.Equal(t, "я", Decode("%d1%8f"))
}

func TestIsValid(t *testing.T) {
	require.True(t, IsValid("http://miralab.ru/mail.html"))
	require.True(t, IsValid("http://miralab.ru/mail.htmlfdsfasd"))
	require.True(t, IsValid("http://президент.рф"))
	require.True(t, IsValid("президент.рф/статьи/"))
	require.True(t, IsValid("https://10.0.0.1:8080/x"))
	require.True(t, IsValid("http://a.ru/%D1%81%D1%82%D0%B0%D1%82%D1%8C%D0%B8"))

	require.False(t, IsValid("localhost"))
	require.False(t, IsValid("http://a.ru:123456/"))
	require.False(t, IsValid("http://-a.ru/"))
	require.False(t, IsValid("http://a.ru/x y"))
	require.False(t, IsValid("http://a.ru/x,"))
	require.False(t, IsValid("http://a.r/"))
}
