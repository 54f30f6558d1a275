package i18n

var frFRCatalog = &Catalog{
	locale: "fr-FR",
	messages: map[Code]string{
		// Participant errors
		CodeParticipantInvalidType:     "Le type de participant doit être mandant ou mandataire",
		CodeParticipantEmptyName:       "Le nom et le prénom sont obligatoires",
		CodeParticipantEmptyElectorID:  "Le numéro national d'électeur est obligatoire",
		CodeParticipantEmptyContact:    "Un numéro de téléphone ou une adresse e-mail est obligatoire",
		CodeParticipantEmptyID:         "L'identifiant du participant est obligatoire",
		CodeParticipantNotFound:        "Participant introuvable",
		CodeParticipantDisabled:        "Le participant {{.ParticipantID}} est désactivé et ne peut pas être apparié",
		CodeParticipantAlreadyMatched:  "Le participant {{.ParticipantID}} a déjà une procuration active",
		CodeParticipantWrongType:       "Le participant {{.ParticipantID}} n'est pas un {{.ExpectedType}}",
		CodeParticipantElectorIDExists: "Un {{.Type}} avec ce numéro d'électeur est déjà enregistré",
		CodeParticipantInvalidStatus:   "Le filtre de statut doit être pending, matched ou all",

		// Match errors
		CodeMatchEmptyID:          "L'identifiant de la procuration est obligatoire",
		CodeMatchNotFound:         "Procuration introuvable",
		CodeMatchAlreadyConfirmed: "Cette procuration a déjà été confirmée",
		CodeMatchSelfPairing:      "Un participant ne peut pas être apparié avec lui-même",
		CodeMatchDispatchFailed:   "Les e-mails de mise en relation n'ont pas pu être envoyés ; la procuration reste en attente",
		CodeMatchConfirmPartial:   "Les e-mails ont été envoyés mais le statut n'a pas pu être enregistré ; réconciliation manuelle nécessaire",

		// Operator errors
		CodeOperatorTokenInvalid: "Le jeton opérateur est invalide",
		CodeOperatorTokenExpired: "Le jeton opérateur a expiré",

		// Storage errors
		CodeNotFound:   "Enregistrement introuvable",
		CodeConflict:   "L'enregistrement a été modifié simultanément",
		CodeStoreError: "La base de données est indisponible",
	},
}
