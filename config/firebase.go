package config

// FirebaseServiceAccountKeyPath points to the service account credentials
// used by the FCM messaging client.
var FirebaseServiceAccountKeyPath = "config/serviceAccountKey.json"
