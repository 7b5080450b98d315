package constants

// SDKVersion is the semantic version of this SDK, reported with every
// measurement.
const SDKVersion = "1.2.0"

// Session lifecycle event names. These are produced by the session service
// rather than measured explicitly by the host application.
const (
	EventSession = "session"
	EventInstall = "install"
	EventUpdate  = "update"
	EventOpen    = "open"
	EventClose   = "close"
)

// Standard action event names recognized by the analytics backend. Host
// applications may also measure arbitrary custom names.
const (
	EventRegistration        = "registration"
	EventLogin               = "login"
	EventAddToWishlist       = "add_to_wishlist"
	EventAddToCart           = "add_to_cart"
	EventAddedPaymentInfo    = "added_payment_info"
	EventReservation         = "reservation"
	EventCheckoutInitiated   = "checkout_initiated"
	EventPurchase            = "purchase"
	EventSearch              = "search"
	EventContentView         = "content_view"
	EventTutorialComplete    = "tutorial_complete"
	EventLevelAchieved       = "level_achieved"
	EventAchievementUnlocked = "achievement_unlocked"
	EventSpentCredits        = "spent_credits"
	EventInvite              = "invite"
	EventRated               = "rated"
	EventShare               = "share"
)

// Device form factors.
const (
	DeviceFormWearable = "wearable"
)
