package workflow

// BuildChatGraph wires the chat workflow:
//
//	orchestrator -> document_parser -> pii_removal -> clinical_analysis -> risk_assessment -> insights_summary -> qna -> compliance
//
// with the shortcuts decided by each router.
func BuildChatGraph(nodes Nodes, opts ...CompileOption) (*CompiledGraph, error) {
	return NewGraph().
		AddNode(NodeOrchestrator, nodes.Orchestrator).
		AddNode(NodeDocumentParser, nodes.DocumentParser).
		AddNode(NodePiiRemoval, nodes.PiiRemoval).
		AddNode(NodeClinicalAnalysis, nodes.ClinicalAnalysis).
		AddNode(NodeRiskAssessment, nodes.RiskAssessment).
		AddNode(NodeInsightsSummary, nodes.InsightsSummary).
		AddNode(NodeQna, nodes.Qna).
		AddNode(NodeCompliance, nodes.Compliance).
		AddEdge(START, NodeOrchestrator).
		AddConditionalEdges(NodeOrchestrator, RouteFromOrchestrator, map[string]string{
			NodeDocumentParser: NodeDocumentParser,
			NodeQna:            NodeQna,
			NodeCompliance:     NodeCompliance,
		}).
		AddConditionalEdges(NodeDocumentParser, RouteFromDocumentParser, map[string]string{
			NodePiiRemoval: NodePiiRemoval,
			END:            END,
		}).
		AddEdge(NodePiiRemoval, NodeClinicalAnalysis).
		AddConditionalEdges(NodeClinicalAnalysis, RouteFromClinicalAnalysis, map[string]string{
			NodeRiskAssessment: NodeRiskAssessment,
			NodeQna:            NodeQna,
			NodeCompliance:     NodeCompliance,
			END:                END,
		}).
		AddEdge(NodeRiskAssessment, NodeInsightsSummary).
		AddConditionalEdges(NodeInsightsSummary, RouteAfterInsights, map[string]string{
			NodeQna:        NodeQna,
			NodeCompliance: NodeCompliance,
		}).
		AddEdge(NodeQna, NodeCompliance).
		AddEdge(NodeCompliance, END).
		Compile(opts...)
}
