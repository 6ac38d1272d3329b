package schema

const (
	DomainBucket       = "domain_records"
	ReceiptBucket      = "receipts"
	ReceiptCountBucket = "receipt_counts"
	TreasuryBucket     = "treasury"
	HoldingBucket      = "holdings" // external payout balances, credited by withdrawals

	TreasuryKey = "singleton"
)

var AllBuckets = []string{
	DomainBucket,
	ReceiptBucket,
	ReceiptCountBucket,
	TreasuryBucket,
	HoldingBucket,
}

const (
	// archive buckets, cold audit storage behind rawdb
	ArchiveEventBucket   = "event_archive"
	ArchiveReceiptBucket = "receipt_archive"
)

var ArchiveBuckets = []string{
	ArchiveEventBucket,
	ArchiveReceiptBucket,
}
