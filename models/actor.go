package models

// ActivityStreams and security vocabularies every actor document carries.
var ActorContext = []string{
	"https://www.w3.org/ns/activitystreams",
	"https://w3id.org/security/v1",
}

const (
	ActorTypePerson = "Person"

	ActivityJSON = "application/activity+json"
	JRDJSON      = "application/jrd+json"

	RelSelf        = "self"
	RelProfilePage = "http://webfinger.net/rel/profile-page"
)

// ActorRecord is the stored identity, private key included. It is never
// written to a response; use Actor for that.
type ActorRecord struct {
	Username    string `json:"username"`
	Domain      string `json:"domain"`
	DisplayName string `json:"displayName"`
	Summary     string `json:"summary"`
	PublicKey   string `json:"publicKey"`
	PrivateKey  string `json:"privateKey"`
	CreatedAt   int64  `json:"createdAt"`
}

type Actor struct {
	Context           []string  `json:"@context"`
	ID                string    `json:"id"`
	Type              string    `json:"type"`
	Following         string    `json:"following"`
	Followers         string    `json:"followers"`
	Inbox             string    `json:"inbox"`
	Outbox            string    `json:"outbox"`
	PreferredUsername string    `json:"preferredUsername"`
	Name              string    `json:"name"`
	Summary           string    `json:"summary"`
	PubKey            PublicKey `json:"publicKey"`
}

type PublicKey struct {
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	PubKeyPem string `json:"publicKeyPem"`
}

type WebFingerResp struct {
	Subject string   `json:"subject"`
	Aliases []string `json:"aliases"`
	Links   []Link   `json:"links"`
}

type Link struct {
	Rel  string `json:"rel"`
	Type string `json:"type"`
	Href string `json:"href"`
}
