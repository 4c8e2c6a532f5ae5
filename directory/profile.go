package directory

import "github.com/cvhariharan/actordir/models"

// ProfileURL is the canonical actor id, also used as the WebFinger alias.
func ProfileURL(domain, username string) string {
	return "https://" + domain + "/users/" + username
}

// ProjectToPublicProfile builds the ActivityPub document for rec. Only the
// public key is carried over.
func ProjectToPublicProfile(rec *models.ActorRecord) models.Actor {
	id := ProfileURL(rec.Domain, rec.Username)
	vocab := make([]string, len(models.ActorContext))
	copy(vocab, models.ActorContext)

	return models.Actor{
		Context:           vocab,
		ID:                id,
		Type:              models.ActorTypePerson,
		Following:         id + "/following",
		Followers:         id + "/followers",
		Inbox:             id + "/inbox",
		Outbox:            id + "/outbox",
		PreferredUsername: rec.Username,
		Name:              rec.DisplayName,
		Summary:           rec.Summary,
		PubKey: models.PublicKey{
			ID:        id + "#main-key",
			Owner:     id,
			PubKeyPem: rec.PublicKey,
		},
	}
}
