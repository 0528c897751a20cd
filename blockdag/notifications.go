package blockdag

import (
	"fmt"
	"time"

	"github.com/latticenet/latticed/util/daghash"
)

// NotificationType represents the type of a notification message.
type NotificationType int

// NotificationCallback is used for a caller to receive updates about the
// DAG via a callback function.
type NotificationCallback func(*Notification)

// Constants for the type of a notification message.
const (
	// NTBlockAdded indicates the associated block was added into the
	// block DAG.
	NTBlockAdded NotificationType = iota

	// NTChainChanged indicates that the selected parent chain had
	// changed.
	NTChainChanged

	// NTFinalityAdvanced indicates that the finality point had moved
	// forward along the selected parent chain.
	NTFinalityAdvanced
)

// notificationTypeStrings is a map of notification types back to their
// constant names for pretty printing.
var notificationTypeStrings = map[NotificationType]string{
	NTBlockAdded:       "NTBlockAdded",
	NTChainChanged:     "NTChainChanged",
	NTFinalityAdvanced: "NTFinalityAdvanced",
}

// String returns the NotificationType in human-readable form.
func (n NotificationType) String() string {
	if s, ok := notificationTypeStrings[n]; ok {
		return s
	}
	return fmt.Sprintf("Unknown Notification Type (%d)", int(n))
}

// Notification defines a notification that is sent to the caller via the
// callback function provided during the call to Subscribe and consists of
// a notification type as well as associated data that depends on the type
// as follows:
//   - NTBlockAdded:       *BlockAddedNotificationData
//   - NTChainChanged:     *ChainChangedNotificationData
//   - NTFinalityAdvanced: *FinalityAdvancedNotificationData
type Notification struct {
	Type NotificationType
	Data interface{}
}

// BlockAddedNotificationData defines data to be sent along with a
// NTBlockAdded notification.
type BlockAddedNotificationData struct {
	BlockHash *daghash.Hash
	BlueScore uint64
	Timestamp time.Time
}

// ChainChangedNotificationData defines data to be sent along with a
// NTChainChanged notification.
type ChainChangedNotificationData struct {
	RemovedChainBlockHashes []*daghash.Hash
	AddedChainBlockHashes   []*daghash.Hash
}

// FinalityAdvancedNotificationData defines data to be sent along with a
// NTFinalityAdvanced notification.
type FinalityAdvancedNotificationData struct {
	FinalityBlockHash *daghash.Hash
	FinalityBlueScore uint64
	Timestamp         time.Time
}

// Subscribe to block DAG notifications. Registers a callback to be
// executed when various events take place. See the documentation on
// Notification and NotificationType for details on the types and contents
// of notifications.
func (dag *BlockDAG) Subscribe(callback NotificationCallback) {
	dag.notificationsLock.Lock()
	defer dag.notificationsLock.Unlock()
	dag.notifications = append(dag.notifications, callback)
}

// sendNotification sends a notification with the passed type and data if
// the caller requested notifications by providing a callback function in
// the call to Subscribe.
func (dag *BlockDAG) sendNotification(typ NotificationType, data interface{}) {
	// Generate and send the notification.
	n := Notification{Type: typ, Data: data}
	dag.notificationsLock.RLock()
	defer dag.notificationsLock.RUnlock()
	for _, callback := range dag.notifications {
		callback(&n)
	}
}
