package config

// FirebaseServiceAccountKeyPath points at the service-account JSON used for
// staff push notifications. Override with the FIREBASE_CREDENTIALS env var.
var FirebaseServiceAccountKeyPath = "firebase-service-account.json"
