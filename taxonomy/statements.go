// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package taxonomy

// Metric keys must match the remote service field names exactly, including
// its misspellings (e.g. netCashUsedForInvestingActivites).

var BalanceSheetTaxonomy = MustNew(BalanceSheet,
	GroupDescriptor{
		Name: "Assets",
		Metrics: []MetricDescriptor{
			{Label: "Cash and Cash Equivalents", Key: "cashAndCashEquivalents"},
			{Label: "Short-term Investments", Key: "shortTermInvestments"},
			{Label: "Cash and Short-term Investments", Key: "cashAndShortTermInvestments"},
			{Label: "Net Receivables", Key: "netReceivables"},
			{Label: "Inventory", Key: "inventory"},
			{Label: "Other Current Assets", Key: "otherCurrentAssets"},
			{Label: "Total Current Assets", Key: "totalCurrentAssets"},
			{Label: "Property, Plant, and Equipment Net", Key: "propertyPlantEquipmentNet"},
			{Label: "Goodwill", Key: "goodwill"},
			{Label: "Intangible Assets", Key: "intangibleAssets"},
			{Label: "Goodwill and Intangible Assets", Key: "goodwillAndIntangibleAssets"},
			{Label: "Long-term Investments", Key: "longTermInvestments"},
			{Label: "Other Non-current Assets", Key: "otherNonCurrentAssets"},
			{Label: "Total Non-current Assets", Key: "totalNonCurrentAssets"},
			{Label: "Total Assets", Key: "totalAssets"},
		},
	},
	GroupDescriptor{
		Name: "Liabilities",
		Metrics: []MetricDescriptor{
			{Label: "Account Payables", Key: "accountPayables"},
			{Label: "Short-term Debt", Key: "shortTermDebt"},
			{Label: "Deferred Revenue", Key: "deferredRevenue"},
			{Label: "Other Current Liabilities", Key: "otherCurrentLiabilities"},
			{Label: "Total Current Liabilities", Key: "totalCurrentLiabilities"},
			{Label: "Long-term Debt", Key: "longTermDebt"},
			{Label: "Deferred Revenue Non-current", Key: "deferredRevenueNonCurrent"},
			{Label: "Deferred Tax Liabilities Non-current", Key: "deferredTaxLiabilitiesNonCurrent"},
			{Label: "Other Non-current Liabilities", Key: "otherNonCurrentLiabilities"},
			{Label: "Total Non-current Liabilities", Key: "totalNonCurrentLiabilities"},
			{Label: "Total Liabilities", Key: "totalLiabilities"},
		},
	},
	GroupDescriptor{
		Name: "Equity",
		Metrics: []MetricDescriptor{
			{Label: "Common Stock", Key: "commonStock"},
			{Label: "Retained Earnings", Key: "retainedEarnings"},
			{Label: "Accumulated Other Comprehensive Income (Loss)", Key: "accumulatedOtherComprehensiveIncomeLoss"},
			{Label: "Total Stockholders' Equity", Key: "totalStockholdersEquity"},
			{Label: "Total Equity", Key: "totalEquity"},
		},
	},
)

var IncomeStatementTaxonomy = MustNew(IncomeStatement,
	GroupDescriptor{
		Name: "Revenue & Gross Profit",
		Metrics: []MetricDescriptor{
			{Label: "Revenue", Key: "revenue"},
			{Label: "Cost of Revenue", Key: "costOfRevenue"},
			{Label: "Gross Profit", Key: "grossProfit"},
			{Label: "Gross Profit Ratio", Key: "grossProfitRatio"},
		},
	},
	GroupDescriptor{
		Name: "Operating Expenses",
		Metrics: []MetricDescriptor{
			{Label: "Research and Development Expenses", Key: "researchAndDevelopmentExpenses"},
			{Label: "Selling, General, and Administrative Expenses", Key: "sellingGeneralAndAdministrativeExpenses"},
			{Label: "Operating Expenses", Key: "operatingExpenses"},
			{Label: "Cost and Expenses", Key: "costAndExpenses"},
			{Label: "Depreciation and Amortization", Key: "depreciationAndAmortization"},
		},
	},
	GroupDescriptor{
		Name: "Operating & Non-Operating Income",
		Metrics: []MetricDescriptor{
			{Label: "Operating Income", Key: "operatingIncome"},
			{Label: "Operating Income Ratio", Key: "operatingIncomeRatio"},
			{Label: "Interest Income", Key: "interestIncome"},
			{Label: "Interest Expense", Key: "interestExpense"},
			{Label: "Total Other Income/Expenses Net", Key: "totalOtherIncomeExpensesNet"},
			{Label: "EBITDA", Key: "ebitda"},
			{Label: "EBITDA Ratio", Key: "ebitdaratio"},
		},
	},
	GroupDescriptor{
		Name: "Net Income",
		Metrics: []MetricDescriptor{
			{Label: "Income Before Tax", Key: "incomeBeforeTax"},
			{Label: "Income Before Tax Ratio", Key: "incomeBeforeTaxRatio"},
			{Label: "Income Tax Expense", Key: "incomeTaxExpense"},
			{Label: "Net Income", Key: "netIncome"},
			{Label: "Net Income Ratio", Key: "netIncomeRatio"},
		},
	},
	GroupDescriptor{
		Name: "Per Share Data",
		Metrics: []MetricDescriptor{
			{Label: "Earnings per Share (EPS)", Key: "eps"},
			{Label: "EPS Diluted", Key: "epsdiluted"},
			{Label: "Weighted Average Shares Outstanding", Key: "weightedAverageShsOut"},
			{Label: "Weighted Average Shares Outstanding (Diluted)", Key: "weightedAverageShsOutDil"},
		},
	},
)

var CashFlowTaxonomy = MustNew(CashFlow,
	GroupDescriptor{
		Name: "Operating Activities",
		Metrics: []MetricDescriptor{
			{Label: "Net Income", Key: "netIncome"},
			{Label: "Depreciation and Amortization", Key: "depreciationAndAmortization"},
			{Label: "Change in Working Capital", Key: "changeInWorkingCapital"},
			{Label: "Net Cash Provided by Operating Activities", Key: "netCashProvidedByOperatingActivities"},
		},
	},
	GroupDescriptor{
		Name: "Investing Activities",
		Metrics: []MetricDescriptor{
			{Label: "Investments in Property, Plant, and Equipment", Key: "investmentsInPropertyPlantAndEquipment"},
			{Label: "Acquisitions (Net)", Key: "acquisitionsNet"},
			{Label: "Purchases of Investments", Key: "purchasesOfInvestments"},
			{Label: "Sales/Maturities of Investments", Key: "salesMaturitiesOfInvestments"},
			{Label: "Net Cash Used for Investing Activities", Key: "netCashUsedForInvestingActivites"},
		},
	},
	GroupDescriptor{
		Name: "Financing Activities",
		Metrics: []MetricDescriptor{
			{Label: "Debt Repayment", Key: "debtRepayment"},
			{Label: "Common Stock Issued", Key: "commonStockIssued"},
			{Label: "Common Stock Repurchased", Key: "commonStockRepurchased"},
			{Label: "Dividends Paid", Key: "dividendsPaid"},
			{Label: "Net Cash Provided by/Used for Financing Activities", Key: "netCashUsedProvidedByFinancingActivities"},
		},
	},
	GroupDescriptor{
		Name: "Free Cash Flow",
		Metrics: []MetricDescriptor{
			{Label: "Operating Cash Flow", Key: "operatingCashFlow"},
			{Label: "Capital Expenditure", Key: "capitalExpenditure"},
			{Label: "Free Cash Flow", Key: "freeCashFlow"},
		},
	},
	GroupDescriptor{
		Name: "Cash at Period End",
		Metrics: []MetricDescriptor{
			{Label: "Net Change in Cash", Key: "netChangeInCash"},
			{Label: "Cash at End of Period", Key: "cashAtEndOfPeriod"},
			{Label: "Cash at Beginning of Period", Key: "cashAtBeginningOfPeriod"},
		},
	},
)
