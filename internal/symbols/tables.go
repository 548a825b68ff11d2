package symbols

// aliasEntry maps a lowercase company alias to its NSE ticker. Entries are
// ordered: lookup walks the list and the first substring match wins, so more
// specific aliases must come before shorter ones that contain them.
type aliasEntry struct {
	Alias  string
	Symbol string
}

// sectorEntry groups the keywords that identify one market sector.
type sectorEntry struct {
	Name     string
	Keywords []string
}

// Tables holds the immutable lookup data for resolution and classification.
// Built once with DefaultTables and shared; never mutated after construction.
type Tables struct {
	companyAliases    []aliasEntry
	companyIndicators []string
	sectors           []sectorEntry
}

// DefaultTables returns the built-in NSE alias and sector keyword tables.
func DefaultTables() *Tables {
	return &Tables{
		companyAliases:    companyAliases,
		companyIndicators: companyIndicators,
		sectors:           sectorKeywords,
	}
}

var companyAliases = []aliasEntry{
	// IT
	{"tata consultancy services", "TCS"},
	{"tcs", "TCS"},
	{"infosys", "INFY"},
	{"infy", "INFY"},
	{"wipro", "WIPRO"},
	{"hcl technologies", "HCLTECH"},
	{"hcltech", "HCLTECH"},
	{"hcl tech", "HCLTECH"},
	{"tech mahindra", "TECHM"},
	{"techm", "TECHM"},
	{"ltimindtree", "LTIM"},
	{"l&t infotech", "LTIM"},
	{"mphasis", "MPHASIS"},
	{"persistent", "PERSISTENT"},
	{"coforge", "COFORGE"},

	// Banking
	{"hdfc bank", "HDFCBANK"},
	{"hdfcbank", "HDFCBANK"},
	{"icici bank", "ICICIBANK"},
	{"icicibank", "ICICIBANK"},
	{"state bank", "SBIN"},
	{"sbi", "SBIN"},
	{"axis bank", "AXISBANK"},
	{"axisbank", "AXISBANK"},
	{"kotak mahindra", "KOTAKBANK"},
	{"kotakbank", "KOTAKBANK"},
	{"kotak bank", "KOTAKBANK"},
	{"indusind bank", "INDUSINDBK"},
	{"indusindbk", "INDUSINDBK"},
	{"federal bank", "FEDERALBNK"},
	{"bandhan bank", "BANDHANBNK"},
	{"idfc first", "IDFCFIRSTB"},
	{"yes bank", "YESBANK"},
	{"bank of baroda", "BANKBARODA"},
	{"punjab national", "PNB"},
	{"pnb", "PNB"},
	{"canara bank", "CANBK"},

	// Auto
	{"tata motors", "TATAMOTORS"},
	{"tatamotors", "TATAMOTORS"},
	{"maruti", "MARUTI"},
	{"maruti suzuki", "MARUTI"},
	{"mahindra", "M&M"},
	{"m&m", "M&M"},
	{"bajaj auto", "BAJAJ-AUTO"},
	{"hero motocorp", "HEROMOTOCO"},
	{"eicher motors", "EICHERMOT"},
	{"tvs motor", "TVSMOTOR"},
	{"ashok leyland", "ASHOKLEY"},

	// Oil & Gas
	{"reliance", "RELIANCE"},
	{"reliance industries", "RELIANCE"},
	{"ongc", "ONGC"},
	{"oil and natural gas", "ONGC"},
	{"indian oil", "IOC"},
	{"ioc", "IOC"},
	{"bpcl", "BPCL"},
	{"bharat petroleum", "BPCL"},
	{"hpcl", "HPCL"},
	{"hindustan petroleum", "HPCL"},
	{"gail", "GAIL"},
	{"petronet lng", "PETRONET"},

	// Pharma & Healthcare
	{"sun pharma", "SUNPHARMA"},
	{"sunpharma", "SUNPHARMA"},
	{"dr reddy", "DRREDDY"},
	{"drreddy", "DRREDDY"},
	{"cipla", "CIPLA"},
	{"divi's lab", "DIVISLAB"},
	{"divislab", "DIVISLAB"},
	{"lupin", "LUPIN"},
	{"aurobindo pharma", "AUROPHARMA"},
	{"biocon", "BIOCON"},
	{"torrent pharma", "TORNTPHARM"},
	{"alkem", "ALKEM"},
	{"apollo hospitals", "APOLLOHOSP"},
	{"fortis healthcare", "FORTIS"},
	{"max healthcare", "MAXHEALTH"},

	// FMCG
	{"hindustan unilever", "HINDUNILVR"},
	{"hindunilvr", "HINDUNILVR"},
	{"hul", "HINDUNILVR"},
	{"itc", "ITC"},
	{"nestle", "NESTLEIND"},
	{"nestle india", "NESTLEIND"},
	{"britannia", "BRITANNIA"},
	{"dabur", "DABUR"},
	{"godrej consumer", "GODREJCP"},
	{"marico", "MARICO"},
	{"colgate", "COLPAL"},
	{"tata consumer", "TATACONSUM"},
	{"varun beverages", "VBL"},

	// Metals & Mining
	{"tata steel", "TATASTEEL"},
	{"tatasteel", "TATASTEEL"},
	{"jsw steel", "JSWSTEEL"},
	{"jswsteel", "JSWSTEEL"},
	{"hindalco", "HINDALCO"},
	{"vedanta", "VEDL"},
	{"vedl", "VEDL"},
	{"coal india", "COALINDIA"},
	{"nmdc", "NMDC"},
	{"sail", "SAIL"},
	{"jindal steel", "JINDALSTEL"},

	// Infrastructure & Construction
	{"larsen", "LT"},
	{"l&t", "LT"},
	{"larsen & toubro", "LT"},
	{"adani ports", "ADANIPORTS"},
	{"adaniports", "ADANIPORTS"},
	{"adani enterprises", "ADANIENT"},
	{"adanient", "ADANIENT"},
	{"adani green", "ADANIGREEN"},
	{"adani power", "ADANIPOWER"},
	{"adani total gas", "ATGL"},
	{"ultratech", "ULTRACEMCO"},
	{"ultracemco", "ULTRACEMCO"},
	{"ultratech cement", "ULTRACEMCO"},
	{"shree cement", "SHREECEM"},
	{"ambuja cement", "AMBUJACEM"},
	{"acc", "ACC"},
	{"dlf", "DLF"},
	{"godrej properties", "GODREJPROP"},
	{"oberoi realty", "OBEROIRLTY"},

	// Telecom
	{"bharti airtel", "BHARTIARTL"},
	{"bhartiartl", "BHARTIARTL"},
	{"airtel", "BHARTIARTL"},
	{"jio", "RELIANCE"},
	{"vodafone idea", "IDEA"},
	{"idea", "IDEA"},

	// Finance & Insurance
	{"bajaj finance", "BAJFINANCE"},
	{"bajfinance", "BAJFINANCE"},
	{"bajaj finserv", "BAJAJFINSV"},
	{"hdfc life", "HDFCLIFE"},
	{"sbi life", "SBILIFE"},
	{"icici prudential", "ICICIPRULI"},
	{"lic housing", "LICHSGFIN"},
	{"hdfc amc", "HDFCAMC"},
	{"sbi card", "SBICARD"},
	{"muthoot finance", "MUTHOOTFIN"},
	{"cholamandalam", "CHOLAFIN"},
	{"shriram finance", "SHRIRAMFIN"},

	// Power & Utilities
	{"ntpc", "NTPC"},
	{"power grid", "POWERGRID"},
	{"powergrid", "POWERGRID"},
	{"tata power", "TATAPOWER"},
	{"tatapower", "TATAPOWER"},
	{"jsw energy", "JSWENERGY"},
	{"nhpc", "NHPC"},
	{"torrent power", "TORNTPOWER"},

	// Chemicals & Paints
	{"pidilite", "PIDILITIND"},
	{"asian paints", "ASIANPAINT"},
	{"asianpaint", "ASIANPAINT"},
	{"berger paints", "BERGEPAINT"},
	{"srf", "SRF"},
	{"upl", "UPL"},
	{"coromandel", "COROMANDEL"},
	{"aarti industries", "AARTIIND"},

	// Defence & Aerospace
	{"hindustan aeronautics", "HAL"},
	{"hal", "HAL"},
	{"hindustan aero", "HAL"},
	{"bharat electronics", "BEL"},
	{"bel", "BEL"},
	{"bharat dynamics", "BDL"},
	{"bdl", "BDL"},
	{"mazagon dock", "MAZDOCK"},
	{"cochin shipyard", "COCHINSHIP"},
	{"bharat forge", "BHARATFORG"},

	// Railways & PSU
	{"irctc", "IRCTC"},
	{"indian railway catering", "IRCTC"},
	{"rvnl", "RVNL"},
	{"rail vikas", "RVNL"},
	{"irfc", "IRFC"},
	{"indian railway finance", "IRFC"},
	{"rites", "RITES"},

	// Others
	{"titan", "TITAN"},
	{"avenue supermarts", "DMART"},
	{"dmart", "DMART"},
	{"zomato", "ZOMATO"},
	{"paytm", "PAYTM"},
	{"nykaa", "NYKAA"},
	{"policybazaar", "POLICYBZR"},
	{"trent", "TRENT"},
	{"page industries", "PAGEIND"},
	{"indigo", "INDIGO"},
	{"interglobe", "INDIGO"},
	{"havells", "HAVELLS"},
	{"dixon", "DIXON"},
	{"polycab", "POLYCAB"},
	{"siemens", "SIEMENS"},
	{"abb", "ABB"},
	{"cummins", "CUMMINSIND"},
}

// companyIndicators are strong single-company signals for the classifier.
var companyIndicators = []string{
	"tata motors", "reliance", "hdfc", "infosys", "tcs", "wipro",
	"icici", "sbi", "bajaj", "mahindra", "maruti", "adani",
	"hindustan aeronautics", "bharat electronics", "hal", "bel",
	"ntpc", "ongc", "sail", "bhel", "coal india",
}

var sectorKeywords = []sectorEntry{
	{"Defence", []string{"defence", "defense", "aerospace"}},
	{"It", []string{"it sector", "information technology", "software", "tech sector"}},
	{"Banking", []string{"banking", "banks", "financial sector", "finance"}},
	{"Pharma", []string{"pharma", "pharmaceutical", "medicine", "drug"}},
	{"Auto", []string{"auto", "automobile", "automotive", "car", "vehicle"}},
	{"Fmcg", []string{"fmcg", "fast moving", "consumer goods"}},
	{"Energy", []string{"energy", "power", "oil", "gas", "renewable"}},
	{"Real Estate", []string{"real estate", "realty", "construction", "infrastructure"}},
	{"Telecom", []string{"telecom", "telecommunication"}},
	{"Steel", []string{"steel", "metal", "iron"}},
	{"Cement", []string{"cement", "construction material"}},
}
