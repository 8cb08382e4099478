package domain

// DefaultAutoLockTimeout is the number of idle minutes after which the
// wallet locks itself.
const DefaultAutoLockTimeout = 25

// Settings holds the wallet preferences. The wallet password is managed
// elsewhere, only the fact that one was set is tracked here.
type Settings struct {
	IsFirstLaunch           bool
	IsBootstrappingComplete bool
	IsPasswordSet           bool
	IsSendBugReport         bool
	IsTermsAccepted         bool
	AutoLockTimeout         int
	IsLocked                bool
	Error                   string
}

func NewSettings() Settings {
	return Settings{
		IsFirstLaunch:   true,
		AutoLockTimeout: DefaultAutoLockTimeout,
	}
}
