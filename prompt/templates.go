package prompt

// Текстовые блоки запроса. Схемы ответа должны совпадать с тем,
// что разбирает пакет reconcile: check_parties, goods, route, contract_type.

const preamble = `Task: sanctions and export-control screening of a trade transaction using the knowledge graph.
You are a compliance analyst. Check every party, bank and the goods of the transaction against the
sanctions and restriction lists of the US (OFAC SDN, BIS Entity List), the UK (OFSI) and the EU.

Matching policy:
- A branch, subsidiary or representative office inherits the sanctions status of its parent entity.
- Fuzzy, transliterated and alias matches count as matches; every listed variant of a name must be checked.
- When the evidence is uncertain, prefer "flag" over "clear".
`

const partyCheckSchema = `    "check_parties": {
      "us": {"verdict": true|false, "code": "list or program code, N/A if none", "explanation": "string"},
      "uk": {"verdict": true|false, "code": "string", "explanation": "string"},
      "eu": {"verdict": true|false, "code": "string", "explanation": "string"}
    }`

const goodsCheckSchema = `    "goods": {
      "us": {"verdict": true|false, "code": "ECCN / HS restriction, N/A if none", "explanation": "string"},
      "uk": {"verdict": true|false, "code": "string", "explanation": "string"},
      "eu": {"verdict": true|false, "code": "string", "explanation": "string"}
    },
    "route": {"verdict": true|false, "code": "string", "explanation": "string"},
    "contract_type": {"verdict": true|false, "code": "string", "explanation": "string"}`

const singleSectionIntro = `The transaction is domestic. Screen the parties and banks only.
Return a compact JSON object matching exactly this schema:
`

const twoSectionIntro = `The transaction is cross-border or shows signs of crossing a border. Screen the parties and banks
(section check_parties) and the goods, the route and the contract type (section goods).
Return a compact JSON object matching exactly this schema:
`

const redFlagBlock = `RED FLAG: the transaction is declared domestic (CROSS_BORDER = 0), but the counterparty country
or the route points to a foreign jurisdiction. Treat this as a possible sanctions circumvention scheme.
Known circumvention patterns:
- RU / BY -> KZ / KG / AM / GE / AE / TR -> EU / US / UK (re-export of restricted goods)
- EU / US / UK -> KZ / KG / AM / AE / TR -> RU / BY (parallel import of dual-use goods)
- CN / HK -> KZ / KG -> RU (transit of high-priority items: HS 8471, 8517, 8542, 8802, 9013)
- IR / KP / SY -> AE / TR -> any destination
Check the goods against dual-use and high-priority lists even if the parties are clean.
`

const transitNoteFormat = `TRANSIT: the home jurisdiction %s is an intermediate point of the route %s.
Assess whether the route is used as a hub to hide the real origin or destination of the goods.
`

const closingFormat = `Output rules:
- Output ONLY the JSON object defined above, without markdown or any text around it.
- Write every "explanation" in %s.
- Use "N/A" in "code" when nothing was found.
- Decision rule: "verdict" is "flag" if ANY check above has "verdict": true, otherwise "clear".
`
