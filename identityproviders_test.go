package gatehouse

import (
	"encoding/xml"
	"testing"
	"time"

	"github.com/crewjam/saml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalIdPMetadata(t *testing.T, descriptor *saml.EntityDescriptor) []byte {
	t.Helper()
	data, err := xml.Marshal(descriptor)
	require.NoError(t, err)
	return data
}

func keyDescriptor(use, cert string) saml.KeyDescriptor {
	return saml.KeyDescriptor{
		Use: use,
		KeyInfo: saml.KeyInfo{
			X509Data: saml.X509Data{
				X509Certificates: []saml.X509Certificate{{Data: cert}},
			},
		},
	}
}

func idpEntityDescriptor(endpoints []saml.Endpoint, keys []saml.KeyDescriptor) *saml.EntityDescriptor {
	return &saml.EntityDescriptor{
		EntityID:   "https://idp.example.gov/saml",
		ValidUntil: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		IDPSSODescriptors: []saml.IDPSSODescriptor{
			{
				SSODescriptor: saml.SSODescriptor{
					RoleDescriptor: saml.RoleDescriptor{
						ProtocolSupportEnumeration: "urn:oasis:names:tc:SAML:2.0:protocol",
						KeyDescriptors:             keys,
					},
				},
				SingleSignOnServices: endpoints,
			},
		},
	}
}

func TestParseIdPMetadata_PrefersRedirectBinding(t *testing.T) {
	data := marshalIdPMetadata(t, idpEntityDescriptor(
		[]saml.Endpoint{
			{Binding: saml.HTTPPostBinding, Location: "https://idp.example.gov/sso/post"},
			{Binding: saml.HTTPRedirectBinding, Location: "https://idp.example.gov/sso/redirect"},
		},
		[]saml.KeyDescriptor{
			keyDescriptor("encryption", "ENCRYPTION-CERT"),
			keyDescriptor("signing", "SIGNING-CERT"),
		},
	))

	md, err := ParseIdPMetadata(data)

	require.NoError(t, err)
	assert.Equal(t, "https://idp.example.gov/saml", md.EntityID)
	assert.Equal(t, "https://idp.example.gov/sso/redirect", md.SSOURL)
	assert.Equal(t, "SIGNING-CERT", md.Certificate)
}

func TestParseIdPMetadata_FallsBackToFirstBinding(t *testing.T) {
	data := marshalIdPMetadata(t, idpEntityDescriptor(
		[]saml.Endpoint{
			{Binding: saml.HTTPPostBinding, Location: "https://idp.example.gov/sso/post"},
		},
		nil,
	))

	md, err := ParseIdPMetadata(data)

	require.NoError(t, err)
	assert.Equal(t, "https://idp.example.gov/sso/post", md.SSOURL)
	assert.Empty(t, md.Certificate)
}

func TestParseIdPMetadata_UnmarkedKeyStillSigns(t *testing.T) {
	data := marshalIdPMetadata(t, idpEntityDescriptor(
		[]saml.Endpoint{
			{Binding: saml.HTTPRedirectBinding, Location: "https://idp.example.gov/sso"},
		},
		[]saml.KeyDescriptor{keyDescriptor("", "UNMARKED-CERT")},
	))

	md, err := ParseIdPMetadata(data)

	require.NoError(t, err)
	assert.Equal(t, "UNMARKED-CERT", md.Certificate)
}

func TestParseIdPMetadata_NoIdPDescriptor(t *testing.T) {
	data := marshalIdPMetadata(t, &saml.EntityDescriptor{
		EntityID:   "https://sp.example.gov/saml",
		ValidUntil: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	})

	_, err := ParseIdPMetadata(data)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no IdP descriptor")
}

func TestParseIdPMetadata_NoSSOEndpoint(t *testing.T) {
	data := marshalIdPMetadata(t, idpEntityDescriptor(nil, nil))

	_, err := ParseIdPMetadata(data)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no SSO endpoint")
}

func TestParseIdPMetadata_MalformedXML(t *testing.T) {
	_, err := ParseIdPMetadata([]byte("this is not metadata"))
	assert.Error(t, err)
}
