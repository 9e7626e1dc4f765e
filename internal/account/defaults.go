package account

// DefaultAccount describes one seeded system account.
type DefaultAccount struct {
	Code     string
	Name     string
	Type     Type
	Category string
}

// DefaultChart is the minimal chart of accounts seeded on first start.
// Seeded rows are marked system and cannot be deleted.
var DefaultChart = []DefaultAccount{
	// Assets (1xxx)
	{Code: "1000", Name: "Cash", Type: TypeAsset, Category: "Current Asset"},
	{Code: "1050", Name: "Bank", Type: TypeAsset, Category: "Current Asset"},
	{Code: "1100", Name: "Accounts Receivable", Type: TypeAsset, Category: "Current Asset"},
	{Code: "1200", Name: "Inventory", Type: TypeAsset, Category: "Current Asset"},
	{Code: "1300", Name: "Raw Materials", Type: TypeAsset, Category: "Current Asset"},
	{Code: "1500", Name: "Equipment", Type: TypeAsset, Category: "Fixed Asset"},

	// Liabilities (2xxx)
	{Code: "2000", Name: "Accounts Payable", Type: TypeLiability, Category: "Current Liability"},
	{Code: "2100", Name: "Salaries Payable", Type: TypeLiability, Category: "Current Liability"},
	{Code: "2200", Name: "Customer Deposits", Type: TypeLiability, Category: "Current Liability"},

	// Equity (3xxx)
	{Code: "3000", Name: "Owner Capital", Type: TypeEquity, Category: "Equity"},
	{Code: "3100", Name: "Retained Earnings", Type: TypeEquity, Category: "Equity"},

	// Revenue (4xxx)
	{Code: "4000", Name: "Sales Revenue", Type: TypeRevenue, Category: "Operating Revenue"},
	{Code: "4100", Name: "Sales Returns", Type: TypeRevenue, Category: "Contra Revenue"},

	// Expenses (5xxx)
	{Code: "5000", Name: "Cost of Goods Sold", Type: TypeExpense, Category: "COGS"},
	{Code: "5100", Name: "Salaries Expense", Type: TypeExpense, Category: "Operating Expense"},
	{Code: "5200", Name: "Rent Expense", Type: TypeExpense, Category: "Operating Expense"},
	{Code: "5300", Name: "Utilities Expense", Type: TypeExpense, Category: "Operating Expense"},
	{Code: "5900", Name: "Miscellaneous Expense", Type: TypeExpense, Category: "Operating Expense"},
}
